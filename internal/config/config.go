package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env             string `env:"ENV" env-required:"true"`
	DefaultTimeZone string `env:"DEFAULT_TIMEZONE" env-default:"Asia/Seoul"`
	HTTP            HTTPConfig
	Postgres        PostgresConfig
	Auth            AuthConfig
	AI              AIConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

// AuthConfig describes how access tokens minted by the identity provider
// are verified. Tokens are HS256 and signed with the provider's shared secret.
type AuthConfig struct {
	JWTSecret   string `env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer   string `env:"AUTH_JWT_ISSUER"`
	JWTAudience string `env:"AUTH_JWT_AUDIENCE" env-default:"authenticated"`
}

// AIConfig is handed to the model invoker at construction. Nothing below
// internal/app reads these values from the environment directly.
type AIConfig struct {
	Provider         string  `env:"AI_PROVIDER" env-default:"gemini"`
	APIKey           string  `env:"AI_API_KEY"`
	Model            string  `env:"AI_MODEL" env-default:"gemini-2.0-flash"`
	BaseURL          string  `env:"AI_BASE_URL"`
	Temperature      float32 `env:"AI_TEMPERATURE" env-default:"0.2"`
	MaxOutputTokens  int32   `env:"AI_MAX_OUTPUT_TOKENS" env-default:"1024"`
	ResponseLanguage string  `env:"AI_RESPONSE_LANGUAGE" env-default:"Korean"`
}
