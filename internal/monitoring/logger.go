// Package monitoring carries the diagnostic loggers shared by the frame
// packages. Library code logs through Logf; binaries that want structured
// output route it into zap with UseZap.
package monitoring

import (
	"log"

	"go.uber.org/zap"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// structured is the zap logger installed by UseZap. Nop until then.
var structured = zap.NewNop()

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// UseZap routes Logf through l's sugared Infof and makes l available from
// Zap. Passing nil restores the defaults.
func UseZap(l *zap.Logger) {
	if l == nil {
		structured = zap.NewNop()
		Logf = log.Printf
		return
	}
	structured = l
	sugar := l.WithOptions(zap.AddCallerSkip(1)).Sugar()
	Logf = sugar.Infof
}

// Zap returns the structured logger installed by UseZap, or a no-op logger.
func Zap() *zap.Logger {
	return structured
}
