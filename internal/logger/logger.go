// Package logger builds the structured logger shared by every component.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github-relay/internal/config"
)

// ServiceName is attached to every log entry
const ServiceName = "github-api"

// TimestampFormat matches the access log timestamps
const TimestampFormat = "2006-01-02 15:04:05"

// New creates a JSON logger writing to stdout
func New(cfg config.LogConfig) *logrus.Entry {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a JSON logger writing to w
func NewWithWriter(cfg config.LogConfig, w io.Writer) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: TimestampFormat})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		if cfg.Env == "development" {
			level = logrus.DebugLevel
		}
	}
	log.SetLevel(level)

	return log.WithField("service", ServiceName)
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
