package bitbucket

import (
	"fmt"
	"slices"

	"bitbucketauth/pkg/oauth2"
)

// Schema selects which user fields ParseProfile reads.
type Schema string

const (
	// SchemaUser reads username and links.html.href.
	SchemaUser Schema = "username"
	// SchemaAccount reads nickname and account_id.
	SchemaAccount Schema = "nickname"
)

// ParseSchema resolves a schema name; empty means SchemaUser.
func ParseSchema(name string) (Schema, error) {
	switch Schema(name) {
	case "", SchemaUser:
		return SchemaUser, nil
	case SchemaAccount:
		return SchemaAccount, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
}

// ParseProfile maps a /user response to a normalized profile.
//
// When the payload embeds an emails list, only confirmed addresses are kept
// and each primary one is moved to the front as it is seen. Without an
// embedded list, Emails stays nil.
func ParseProfile(p Payload, schema Schema) (*oauth2.Profile, error) {
	var user userResponse
	if err := p.decode(&user); err != nil {
		return nil, err
	}

	profile := &oauth2.Profile{
		ID:          user.UUID,
		DisplayName: user.DisplayName,
	}

	switch schema {
	case SchemaAccount:
		profile.AccountID = user.AccountID
		profile.Nickname = user.Nickname
	default:
		profile.Username = user.Username
		profile.ProfileURL = user.profileURL()
	}

	if user.Emails != nil {
		profile.Emails = confirmedEmails(user.Emails)
	}

	return profile, nil
}

func confirmedEmails(entries []emailEntry) []oauth2.Email {
	emails := make([]oauth2.Email, 0, len(entries))
	for _, e := range entries {
		if !e.IsConfirmed {
			continue
		}
		if e.IsPrimary {
			emails = slices.Insert(emails, 0, oauth2.Email{Value: e.Email, Type: oauth2.EmailTypePrimary})
			continue
		}
		emails = append(emails, oauth2.Email{Value: e.Email})
	}
	return emails
}
