package app

import (
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-todo-ai/internal/config"
)

var globalDefaultLocation *time.Location

func MustReadEnv() {
	mustSetConfig(config.NewEnvReader().Read())
}

// MustReadAssistantEnv reads only what the assistant pipelines need, so
// one-shot commands run without database or auth settings.
func MustReadAssistantEnv() {
	mustSetConfig(config.NewEnvReader().ReadAssistant())
}

func mustSetConfig(cfg *config.Config, err error) {
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read env")

	config.SetGlobal(cfg)
}

func MustLoadDefaultLocation() {
	name := config.Global().DefaultTimeZone

	loc, err := time.LoadLocation(name)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("timezone", name).
			Msg("failed to load default timezone")
		panic(err)
	}
	globalDefaultLocation = loc

	globalLogger.Info().
		Str("timezone", name).
		Msg("loaded default timezone")
}

// DefaultLocation is the location applied to client times that carry no
// timezone.
func DefaultLocation() *time.Location {
	return globalDefaultLocation
}
