package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	if err = validateEnv(cfg.Env); err != nil {
		return nil, err
	}
	return cfg, nil
}

// assistantConfig is the part of Config the assistant pipelines depend on.
type assistantConfig struct {
	Env             string `env:"ENV" env-default:"local"`
	DefaultTimeZone string `env:"DEFAULT_TIMEZONE" env-default:"Asia/Seoul"`
	AI              AIConfig
}

// ReadAssistant reads ENV, DEFAULT_TIMEZONE and the AI_* variables only.
// HTTP, Postgres and Auth are left zero.
func (EnvReader) ReadAssistant() (*Config, error) {
	var partial assistantConfig
	err := cleanenv.ReadEnv(&partial)
	if err != nil {
		return nil, err
	}

	if err = validateEnv(partial.Env); err != nil {
		return nil, err
	}
	return &Config{
		Env:             partial.Env,
		DefaultTimeZone: partial.DefaultTimeZone,
		AI:              partial.AI,
	}, nil
}

func validateEnv(env string) error {
	switch env {
	case EnvDev, EnvProd, EnvLocal:
		return nil
	default:
		return fmt.Errorf("unknown env: %s", env)
	}
}
