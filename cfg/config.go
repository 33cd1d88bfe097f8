package cfg

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type BitbucketConfig struct {
	ClientID         string            `env:"BITBUCKET_CLIENT_ID,required,notEmpty"`
	ClientSecret     string            `env:"BITBUCKET_CLIENT_SECRET,required,notEmpty"`
	CallbackURL      string            `env:"BITBUCKET_CALLBACK_URL"`
	AuthorizationURL string            `env:"BITBUCKET_AUTHORIZATION_URL"`
	TokenURL         string            `env:"BITBUCKET_TOKEN_URL"`
	UserProfileURL   string            `env:"BITBUCKET_USER_PROFILE_URL"`
	IncludeEmail     bool              `env:"BITBUCKET_INCLUDE_EMAIL" envDefault:"false"`
	UserAgent        string            `env:"BITBUCKET_USER_AGENT"`
	Scopes           []string          `env:"BITBUCKET_SCOPES" envSeparator:","`
	CustomHeaders    map[string]string `env:"BITBUCKET_CUSTOM_HEADERS"`
	ProfileSchema    string            `env:"BITBUCKET_PROFILE_SCHEMA" envDefault:"username"`
}

// RedisConfig is optional; without a host, states are kept in memory.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type ObservabilityConfig struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"bitbucketauth"`
}

type Config struct {
	AppEnv        string `env:"APP_ENV" envDefault:"development"`
	AppPort       string `env:"APP_PORT" envDefault:"8080"`
	NodeID        int64  `env:"NODE_ID" envDefault:"1"`
	Bitbucket     BitbucketConfig
	Redis         RedisConfig
	Observability ObservabilityConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed load .env: %w", err)
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed load cfg: %w", err)
	}
	return &config, nil
}
