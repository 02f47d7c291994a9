// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a logger beyond its level
type Options struct {
	Level  string
	Format string // "json" or "text"; empty picks by ENVIRONMENT
	Output string // "stdout", "stderr" or a file path

	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
}

// NewLogger creates a new configured logger instance
func NewLogger(logLevel string) *logrus.Logger {
	logger, err := New(Options{Level: logLevel})
	if err != nil {
		// only reachable through an invalid format or output, neither of which is set here
		logger = logrus.New()
	}
	return logger
}

// New builds a logger from options. File outputs are rotated with lumberjack.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", opts.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	format := opts.Format
	if format == "" {
		format = "text"
		if os.Getenv("ENVIRONMENT") == "production" {
			format = "json"
		}
	}
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   opts.Output == "" || opts.Output == "stdout",
		})
	default:
		return nil, fmt.Errorf("invalid log format '%s'", format)
	}

	out, err := openOutput(opts)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(out)

	return logger, nil
}

func openOutput(opts Options) (io.Writer, error) {
	switch opts.Output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}
	return &lumberjack.Logger{
		Filename:   opts.Output,
		MaxSize:    maxSize,
		MaxAge:     opts.MaxAgeDays,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
	}, nil
}
