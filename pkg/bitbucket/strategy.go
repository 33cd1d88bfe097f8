package bitbucket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	xoauth2 "golang.org/x/oauth2"

	"bitbucketauth/pkg/logger"
	"bitbucketauth/pkg/oauth2"
)

const (
	// ProviderName is stamped on every profile built by this package.
	ProviderName = "bitbucket"

	DefaultAuthorizationURL = "https://bitbucket.org/site/oauth2/authorize"
	DefaultTokenURL         = "https://bitbucket.org/site/oauth2/access_token"
	DefaultUserProfileURL   = "https://api.bitbucket.org/2.0/user"
	DefaultUserAgent        = "passport-bitbucket"

	tracerName = "bitbucketauth/pkg/bitbucket"
)

// Config holds the Bitbucket OAuth consumer settings.
type Config struct {
	ClientID         string
	ClientSecret     string
	CallbackURL      string
	AuthorizationURL string
	TokenURL         string
	UserProfileURL   string
	Scopes           []string

	// IncludeEmail makes UserProfile fetch UserProfileURL + "/emails" too.
	IncludeEmail bool

	UserAgent string

	// CustomHeaders are sent with every request. Leaving it empty makes the
	// strategy send a Basic Authorization header built from the client
	// credentials along with the User-Agent.
	CustomHeaders map[string]string

	ProfileSchema Schema
}

// Strategy authenticates users against Bitbucket. It holds configuration
// only and is safe for concurrent use.
type Strategy struct {
	engine         *oauth2.Engine
	userProfileURL string
	emailsURL      string
	includeEmail   bool
	schema         Schema
	log            logger.Logger
	tracer         trace.Tracer
}

var _ oauth2.ProfileFetcher = (*Strategy)(nil)

// New creates a Bitbucket strategy.
// Returns an error if ClientID or ClientSecret is empty.
func New(cfg Config, opts ...Option) (*Strategy, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	schema := cfg.ProfileSchema
	if schema == "" {
		schema = SchemaUser
	}

	userProfileURL := valueOr(cfg.UserProfileURL, DefaultUserProfileURL)

	s := &Strategy{
		userProfileURL: userProfileURL,
		emailsURL:      userProfileURL + "/emails",
		includeEmail:   cfg.IncludeEmail,
		schema:         schema,
		log:            o.log,
		tracer:         otel.Tracer(tracerName),
	}

	s.engine = oauth2.NewEngine(oauth2.EngineConfig{
		Name:         ProviderName,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.CallbackURL,
		AuthURL:      valueOr(cfg.AuthorizationURL, DefaultAuthorizationURL),
		TokenURL:     valueOr(cfg.TokenURL, DefaultTokenURL),
		Scopes:       cfg.Scopes,
		Headers:      buildHeaders(cfg),
		HTTPClient:   o.httpClient,
	}, s, o.engineOpts...)

	return s, nil
}

// Name returns the provider identifier.
func (s *Strategy) Name() string {
	return ProviderName
}

// Engine returns the OAuth2 engine configured for Bitbucket.
func (s *Strategy) Engine() *oauth2.Engine {
	return s.engine
}

// Close releases the engine's state storage.
func (s *Strategy) Close() error {
	return s.engine.Close()
}

// UserProfile fetches and normalizes the authenticated user's profile.
//
// A failed request is returned as *oauth2.TransportError and an undecodable
// body as ErrParseProfile. With IncludeEmail set, a second request replaces
// the profile's emails; any failure there is logged and the profile from the
// first request is returned as is.
func (s *Strategy) UserProfile(ctx context.Context, token *xoauth2.Token) (*oauth2.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "bitbucket.UserProfile",
		trace.WithAttributes(attribute.Bool("bitbucket.include_email", s.includeEmail)),
	)
	defer span.End()

	body, err := s.engine.Get(ctx, s.userProfileURL, token)
	if err != nil {
		err = &oauth2.TransportError{Message: "failed to fetch user profile", Err: err}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		span.SetStatus(codes.Error, ErrParseProfile.Error())
		return nil, ErrParseProfile
	}

	profile, err := ParseProfile(Decoded(raw), s.schema)
	if err != nil {
		span.SetStatus(codes.Error, ErrParseProfile.Error())
		return nil, ErrParseProfile
	}
	profile.Provider = ProviderName
	profile.Raw = body
	profile.JSON = raw

	if s.includeEmail {
		s.attachEmails(ctx, token, profile)
	}

	return profile, nil
}

func (s *Strategy) attachEmails(ctx context.Context, token *xoauth2.Token, profile *oauth2.Profile) {
	ctx, span := s.tracer.Start(ctx, "bitbucket.UserEmails")
	defer span.End()

	url := logger.Field{Key: "url", Value: s.emailsURL}

	body, err := s.engine.Get(ctx, s.emailsURL, token)
	if err != nil {
		s.log.Warn("failed to retrieve email addresses from bitbucket", url, logger.Err(err))
		span.SetStatus(codes.Error, err.Error())
		return
	}

	emails, err := ParseEmails(RawJSON(body))
	if err != nil {
		s.log.Warn("error parsing bitbucket email addresses response", url, logger.Err(err))
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if len(emails) == 0 {
		s.log.Warn("empty bitbucket email addresses response", url)
		return
	}

	span.SetAttributes(attribute.Int("bitbucket.email_count", len(emails)))
	profile.Emails = emails
}

// buildHeaders derives the request headers without keeping a reference to
// the caller's map.
func buildHeaders(cfg Config) http.Header {
	headers := make(http.Header, len(cfg.CustomHeaders)+2)
	for key, value := range cfg.CustomHeaders {
		headers.Set(key, value)
	}

	if headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", valueOr(cfg.UserAgent, DefaultUserAgent))
	}

	// Bitbucket's token endpoint wants client credentials as Basic auth.
	if len(cfg.CustomHeaders) == 0 {
		credentials := base64.StdEncoding.EncodeToString([]byte(cfg.ClientID + ":" + cfg.ClientSecret))
		headers.Set("Authorization", "Basic "+credentials)
	}

	return headers
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
