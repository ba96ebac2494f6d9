package config

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SetupLogging applies the logging section to the standard logrus logger.
// A nil out keeps the current output.
func SetupLogging(lc LoggingConfig, out io.Writer) error {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}

	switch strings.ToLower(lc.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("%w: logging.format must be text or json, got %q", ErrInvalidConfig, lc.Format)
	}

	log.SetLevel(level)
	if out != nil {
		log.SetOutput(out)
	}
	return nil
}
