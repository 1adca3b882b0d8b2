package logutil

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cloud.google.com/go/compute/metadata"
)

// ConfigureLogger sets up the global zerolog logger: human-readable console
// output for local runs, JSON with a severity field plus info-level sampling
// on GCE.
func ConfigureLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Caller().Stack().Logger()
	if metadata.OnGCE() {
		log.Logger = log.Hook(ErrorHook{}).Sample(LevelSampler{Level: zerolog.InfoLevel})
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

type ErrorHook struct{}

func (h ErrorHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	e.Str("severity", level.String())
}

// LevelSampler drops every event below Level.
type LevelSampler struct {
	Level zerolog.Level
}

func (s LevelSampler) Sample(lvl zerolog.Level) bool {
	return lvl >= s.Level
}
