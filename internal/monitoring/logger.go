// Package monitoring holds the process-wide diagnostic logger. The
// numeric analysis paths never log; logging happens at the storage and
// HTTP edges.
package monitoring

import "log"

// Logf is the package-level diagnostic logger, defaulting to
// log.Printf. Replace it with SetLogger to redirect or mute output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
