package bitbucket

import (
	"net/http"

	"bitbucketauth/pkg/logger"
	"bitbucketauth/pkg/oauth2"
)

// Option configures a Strategy.
type Option func(*options)

type options struct {
	httpClient *http.Client
	log        logger.Logger
	engineOpts []oauth2.EngineOption
}

// WithHTTPClient sets the HTTP client used for token and API requests.
// Useful for pointing the strategy at an httptest server.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger for email-step diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithStateStorage sets where issued authorization states are kept.
func WithStateStorage(s oauth2.StateStorage) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, oauth2.WithStateStorage(s))
	}
}
