// Package logging holds the process-wide logger.
package logging

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. Commands configure it once at startup.
var Log = logrus.New()

// SetLogLevel parses a level name. Trace and panic levels are not offered.
func SetLogLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "", "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Log.SetLevel(logrus.FatalLevel)
	default:
		return fmt.Errorf("bad log level %q (available: debug, info, warn, error, fatal)", level)
	}
	return nil
}

// UseJSON switches the logger to one JSON object per line, as the daemon
// does for access logs.
func UseJSON() {
	Log.SetFormatter(&logrus.JSONFormatter{})
}
