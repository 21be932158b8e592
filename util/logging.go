package util

import "github.com/sirupsen/logrus"

// Log is the process-wide logger. Analysis components log statement flow
// at debug level only, so the default level keeps the language server
// quiet on stdio transports.
var Log = logrus.New()

func init() {
	Log.SetLevel(logrus.WarnLevel)
	Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// SetVerbose raises the level to debug for troubleshooting sessions.
func SetVerbose(verbose bool) {
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.WarnLevel)
	}
}

// LogF logs a debug message; retained as the cheap call sites use.
func LogF(format string, args ...interface{}) {
	Log.Debugf(format, args...)
}
