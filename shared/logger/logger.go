package logger

import (
	"io"
	"os"
	"studio/config"
	"studio/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a console logger at trace level. It runs before the
// configuration is available; Configure replaces it afterwards.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the configured level and picks the output format:
// console lines in development, JSON tagged with the app name elsewhere.
func Configure(config *config.Config) {
	log.Logger = New(config, os.Stdout)

	SetLogLevel(config)
}

// New builds a logger writing to out in the format Configure would choose.
func New(config *config.Config, out io.Writer) zerolog.Logger {
	if config.Server.Env == constant.ServerEnvDevelopment || config.Server.Env == constant.Empty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if config.App.Name != constant.Empty {
		ctx = ctx.Str("app", config.App.Name)
	}

	return ctx.Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
