package logging

import (
	"os"
	"time"

	"mini_one/internal/platform/config"

	"github.com/sirupsen/logrus"
)

// New builds the process logger: JSON in production, human-readable text
// elsewhere. An unknown LOG_LEVEL falls back to info.
func New(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stdout

	if cfg.IsProduction() {
		log.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	} else {
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}
	log.SetLevel(level)
	return log
}
