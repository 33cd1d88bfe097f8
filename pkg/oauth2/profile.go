package oauth2

import (
	"context"

	"golang.org/x/oauth2"
)

// EmailTypePrimary tags the primary address in a profile's embedded email list.
const EmailTypePrimary = "Primary"

// Email is a normalized provider email address.
type Email struct {
	Value    string `json:"value"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
	Type     string `json:"type,omitempty"`
}

// Profile is the normalized user profile handed back to the application.
// Raw and JSON keep the provider response verbatim for inspection.
type Profile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Username    string  `json:"username,omitempty"`
	Nickname    string  `json:"nickname,omitempty"`
	ProfileURL  string  `json:"profileUrl,omitempty"`
	AccountID   string  `json:"accountId,omitempty"`
	Emails      []Email `json:"emails,omitempty"`
	Provider    string  `json:"provider"`

	Raw  []byte         `json:"-"`
	JSON map[string]any `json:"-"`
}

// ProfileFetcher is the provider-specific step run once an access token is held.
type ProfileFetcher interface {
	UserProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// ProfileFetcherFunc adapts a plain function to ProfileFetcher.
type ProfileFetcherFunc func(ctx context.Context, token *oauth2.Token) (*Profile, error)

func (f ProfileFetcherFunc) UserProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	return f(ctx, token)
}
