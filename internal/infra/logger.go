package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a component-tagged logger: console output in dev,
// JSON elsewhere.
func NewLogger(env, component string) zerolog.Logger {
	if env == "dev" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
}
