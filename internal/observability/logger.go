package observability

import (
	"github.com/danmuck/tlvdump/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger applies the runtime logging profile and returns the global
// logger tagged with the service name.
func InitLogger(service string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.Logger.With().Str("service", service).Logger()
	log.Logger = logger
	return logger
}
