package bitbucket

import (
	"encoding/json"
	"fmt"
)

// Payload is a provider response handed to the parsers, either still
// JSON-encoded or already decoded by the caller.
type Payload struct {
	raw     []byte
	value   any
	decoded bool
}

// RawJSON wraps an encoded response body.
func RawJSON(b []byte) Payload {
	return Payload{raw: b}
}

// RawString wraps an encoded response body held as a string.
func RawString(s string) Payload {
	return Payload{raw: []byte(s)}
}

// Decoded wraps a value the caller already decoded, such as a
// map[string]any from json.Unmarshal.
func Decoded(v any) Payload {
	return Payload{value: v, decoded: true}
}

func (p Payload) decode(dst any) error {
	data := p.raw
	if p.decoded {
		var err error
		if data, err = json.Marshal(p.value); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	return nil
}

// emailEntry is one address as Bitbucket reports it, both from
// /user/emails and when embedded in the user payload.
type emailEntry struct {
	Email       string `json:"email"`
	IsPrimary   bool   `json:"is_primary"`
	IsConfirmed bool   `json:"is_confirmed"`
}

type emailsResponse struct {
	Values []emailEntry `json:"values"`
}

type userResponse struct {
	UUID        string       `json:"uuid"`
	AccountID   string       `json:"account_id"`
	DisplayName string       `json:"display_name"`
	Username    string       `json:"username"`
	Nickname    string       `json:"nickname"`
	Links       *userLinks   `json:"links"`
	Emails      []emailEntry `json:"emails"`
}

type userLinks struct {
	HTML *struct {
		Href string `json:"href"`
	} `json:"html"`
}

func (u *userResponse) profileURL() string {
	if u.Links == nil || u.Links.HTML == nil {
		return ""
	}
	return u.Links.HTML.Href
}
