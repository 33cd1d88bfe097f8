package bitbucket

import "bitbucketauth/pkg/oauth2"

// ParseEmails maps a /user/emails response to normalized emails, keeping
// provider order. A missing or empty values list yields an empty slice.
func ParseEmails(p Payload) ([]oauth2.Email, error) {
	var resp emailsResponse
	if err := p.decode(&resp); err != nil {
		return nil, err
	}

	emails := make([]oauth2.Email, 0, len(resp.Values))
	for _, v := range resp.Values {
		emails = append(emails, oauth2.Email{
			Value:    v.Email,
			Primary:  v.IsPrimary,
			Verified: v.IsConfirmed,
		})
	}
	return emails, nil
}
