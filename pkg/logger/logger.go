package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and tools that never call Init still get a usable logger.
func init() {
	Init("development", "info")
}

// Init configures the global logger. Production emits JSON, everything else
// uses the text formatter for readability.
func Init(appEnv, level string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if appEnv == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(logrus.Fields{
		"service":        "scidiscoveries-api",
		"is_development": appEnv != "production",
	})
}
