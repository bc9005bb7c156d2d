package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mailbolt/mailbolt/internal/errs"
)

// Env carries the environment fallbacks the dispatcher consults. They
// are loaded once here and passed through the pipeline as values, so
// the composition stages stay pure functions of their inputs.
type Env struct {
	// MailURL is the fallback DSN.
	MailURL string `envconfig:"MAIL_URL"`

	// MailFrom is the fallback sender address.
	MailFrom string `envconfig:"MAIL_FROM"`
}

// LoadEnv reads the environment fallbacks, first loading a .env file
// when one exists. A missing .env file is fine.
func LoadEnv() (Env, error) {
	// nolint:errcheck // .env file is optional, failure is acceptable
	_ = godotenv.Load(".env")

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, errs.Config("failed to read environment: %w", err)
	}
	return env, nil
}
