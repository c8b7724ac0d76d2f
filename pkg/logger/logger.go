package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	return InitLoggerWithOutput(logLevel, isDevelopment, os.Stdout)
}

// InitLoggerWithOutput is InitLogger writing to out instead of stdout
func InitLoggerWithOutput(logLevel string, isDevelopment bool, out io.Writer) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(out)

	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

// WithSearchContext tags entries from one lineup search. A nil base uses the
// global logger.
func WithSearchContext(base *logrus.Logger, searchID, strategy, policy string) *logrus.Entry {
	if base == nil {
		base = GetLogger()
	}
	return base.WithFields(logrus.Fields{
		"search_id": searchID,
		"strategy":  strategy,
		"policy":    policy,
	})
}

// WithSlateContext creates a logger scoped to a stored player slate
func WithSlateContext(base *logrus.Logger, slate string) *logrus.Entry {
	if base == nil {
		base = GetLogger()
	}
	return base.WithField("slate", slate)
}

// WithHTTPContext creates a logger scoped to one HTTP request
func WithHTTPContext(base *logrus.Logger, method, path, userAgent string) *logrus.Entry {
	if base == nil {
		base = GetLogger()
	}
	return base.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"user_agent": userAgent,
	})
}
