package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Setenv("BITBUCKET_CLIENT_ID", "id")
	t.Setenv("BITBUCKET_CLIENT_SECRET", "secret")
	t.Setenv("BITBUCKET_INCLUDE_EMAIL", "true")
	t.Setenv("BITBUCKET_SCOPES", "account,email")
	t.Setenv("BITBUCKET_CUSTOM_HEADERS", "X-Team:platform")
	t.Setenv("REDIS_HOST", "redis")

	config, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "development", config.AppEnv)
	assert.Equal(t, "8080", config.AppPort)
	assert.Equal(t, "id", config.Bitbucket.ClientID)
	assert.Equal(t, "secret", config.Bitbucket.ClientSecret)
	assert.True(t, config.Bitbucket.IncludeEmail)
	assert.Equal(t, []string{"account", "email"}, config.Bitbucket.Scopes)
	assert.Equal(t, map[string]string{"X-Team": "platform"}, config.Bitbucket.CustomHeaders)
	assert.Equal(t, "username", config.Bitbucket.ProfileSchema)
	assert.True(t, config.Redis.Enabled())
	assert.Equal(t, "redis:6379", config.Redis.Addr())
	assert.Equal(t, "bitbucketauth", config.Observability.ServiceName)
}

func TestParse_MissingCredentials(t *testing.T) {
	t.Setenv("BITBUCKET_CLIENT_ID", "")
	t.Setenv("BITBUCKET_CLIENT_SECRET", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BITBUCKET_CLIENT_ID")
	assert.Contains(t, err.Error(), "BITBUCKET_CLIENT_SECRET")
}
