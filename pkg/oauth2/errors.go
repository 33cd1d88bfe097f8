package oauth2

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState  = errors.New("oauth2: invalid state")
	ErrStateNotFound = errors.New("oauth2: state not found")
	ErrStateExpired  = errors.New("oauth2: state expired")
	ErrMissingToken  = errors.New("oauth2: missing access token")
)

// TransportError reports a failed request to the provider, carrying the
// underlying cause.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned by Engine.Get when the provider answers with a
// non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("oauth2: unexpected status %d: %s", e.StatusCode, string(e.Body))
}
