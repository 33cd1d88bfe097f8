package oauth2

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultStateTTL = 10 * time.Minute

// EngineConfig describes the provider endpoints and client credentials.
type EngineConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	Scopes       []string

	// Headers are sent on every request the engine issues unless the
	// request already carries the header.
	Headers http.Header

	HTTPClient *http.Client
}

// Result is the outcome of a completed authorization code flow.
type Result struct {
	Profile *Profile
	Token   *oauth2.Token
}

// Engine drives the authorization code flow for a single provider and
// delegates profile retrieval to a ProfileFetcher.
type Engine struct {
	name     string
	config   *oauth2.Config
	client   *http.Client
	fetcher  ProfileFetcher
	states   StateStorage
	stateTTL time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStateStorage replaces the default in-memory state storage.
func WithStateStorage(s StateStorage) EngineOption {
	return func(e *Engine) {
		e.states = s
	}
}

// WithStateTTL sets how long an issued state stays valid.
func WithStateTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		if ttl > 0 {
			e.stateTTL = ttl
		}
	}
}

// NewEngine creates an engine for the given provider configuration.
func NewEngine(cfg EngineConfig, fetcher ProfileFetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		name: cfg.Name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client:   withHeaders(cfg.HTTPClient, cfg.Headers),
		fetcher:  fetcher,
		stateTTL: defaultStateTTL,
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.states == nil {
		e.states = NewInMemoryStorage()
	}

	return e
}

// Name returns the provider name the engine was configured with.
func (e *Engine) Name() string {
	return e.name
}

// AuthCodeURL builds the provider authorization URL for state.
func (e *Engine) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return e.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for a token.
func (e *Engine) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return e.config.Exchange(e.clientContext(ctx), code)
}

// Get issues an authenticated GET, sending the access token in the
// Authorization header. Non-2xx answers are returned as *StatusError.
func (e *Engine) Get(ctx context.Context, url string, token *oauth2.Token) ([]byte, error) {
	if token == nil || token.AccessToken == "" {
		return nil, ErrMissingToken
	}
	client := oauth2.NewClient(e.clientContext(ctx), oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}

// BeginAuth issues a fresh state and returns the URL to redirect the user to.
func (e *Engine) BeginAuth(ctx context.Context) (string, error) {
	state := uuid.NewString()

	if err := e.states.Save(ctx, state, time.Now().Add(e.stateTTL)); err != nil {
		return "", fmt.Errorf("failed to save state: %w", err)
	}

	return e.AuthCodeURL(state), nil
}

// CompleteAuth consumes state, exchanges code and fetches the user profile.
func (e *Engine) CompleteAuth(ctx context.Context, code, state string) (*Result, error) {
	if err := e.states.Consume(ctx, state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	token, err := e.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	profile, err := e.fetcher.UserProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	return &Result{Profile: profile, Token: token}, nil
}

// Close releases the state storage.
func (e *Engine) Close() error {
	return e.states.Close()
}

func (e *Engine) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, e.client)
}
