// Package monitoring holds the shared diagnostic logger for the replay
// binaries and persistence layer. The analysis packages themselves stay
// silent; they report through return values.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// debug gates Debugf output; toggled by SetDebug.
var debug bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebug enables or disables Debugf output.
func SetDebug(enabled bool) {
	debug = enabled
}

// Debugf logs per-frame diagnostics when debug output is enabled. Keep
// it off in normal runs; it fires once per video frame.
func Debugf(format string, v ...interface{}) {
	if debug {
		Logf(format, v...)
	}
}
