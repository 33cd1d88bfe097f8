package bitbucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucketauth/pkg/oauth2"
)

const emailsBody = `{
	"pagelen": 10,
	"values": [
		{"email": "work@example.com", "is_primary": false, "is_confirmed": true, "type": "email"},
		{"email": "jane@example.com", "is_primary": true, "is_confirmed": true, "type": "email"},
		{"email": "old@example.com", "is_primary": false, "is_confirmed": false, "type": "email"}
	]
}`

func TestParseEmails(t *testing.T) {
	want := []oauth2.Email{
		{Value: "work@example.com", Primary: false, Verified: true},
		{Value: "jane@example.com", Primary: true, Verified: true},
		{Value: "old@example.com", Primary: false, Verified: false},
	}

	tests := []struct {
		name    string
		payload Payload
	}{
		{name: "string", payload: RawString(emailsBody)},
		{name: "bytes", payload: RawJSON([]byte(emailsBody))},
		{name: "decoded", payload: Decoded(map[string]any{
			"values": []any{
				map[string]any{"email": "work@example.com", "is_primary": false, "is_confirmed": true},
				map[string]any{"email": "jane@example.com", "is_primary": true, "is_confirmed": true},
				map[string]any{"email": "old@example.com", "is_primary": false, "is_confirmed": false},
			},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emails, err := ParseEmails(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, want, emails)
		})
	}
}

func TestParseEmails_Empty(t *testing.T) {
	for _, body := range []string{`{}`, `{"values": []}`, `{"values": null}`} {
		t.Run(body, func(t *testing.T) {
			emails, err := ParseEmails(RawString(body))
			require.NoError(t, err)
			assert.NotNil(t, emails)
			assert.Empty(t, emails)
		})
	}
}

func TestParseEmails_Malformed(t *testing.T) {
	_, err := ParseEmails(RawString(`{"values": [`))
	assert.ErrorIs(t, err, ErrMalformedJSON)

	_, err = ParseEmails(Decoded(map[string]any{"values": "nope"}))
	assert.ErrorIs(t, err, ErrMalformedJSON)
}
