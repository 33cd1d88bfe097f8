package oauth2

import "net/http"

// headerTransport adds fixed headers to outgoing requests. Headers the
// request already carries are left alone, so a bearer token set by
// oauth2.Transport wins over a configured Authorization header.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for key, values := range t.headers {
		if r.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	return t.base.RoundTrip(r)
}

// withHeaders returns a copy of client whose transport applies headers.
func withHeaders(client *http.Client, headers http.Header) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	clone := *client
	clone.Transport = &headerTransport{base: base, headers: headers.Clone()}
	return &clone
}
