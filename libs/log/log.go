// Package log wraps go-kit/log into the small, leveled Logger interface
// the rest of this module uses, mirroring how Tendermint's own libs/log
// wraps the same library (go-kit/log + go-logfmt/logfmt for structured,
// logfmt-encoded output).
package log

import (
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is a leveled, structured logger. Each method takes a message
// followed by alternating key/value pairs.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	With(keyvals ...interface{}) Logger
}

type kitLogger struct {
	l kitlog.Logger
}

// NewLogfmtLogger returns a Logger writing logfmt lines to stdout,
// suitable for the cmd/lightclient CLI.
func NewLogfmtLogger() Logger {
	base := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	base = kitlog.With(base, "ts", kitlog.DefaultTimestampUTC)
	return &kitLogger{l: base}
}

func (l *kitLogger) Debug(msg string, keyvals ...interface{}) {
	_ = level.Debug(l.l).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func (l *kitLogger) Info(msg string, keyvals ...interface{}) {
	_ = level.Info(l.l).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func (l *kitLogger) Error(msg string, keyvals ...interface{}) {
	_ = level.Error(l.l).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func (l *kitLogger) With(keyvals ...interface{}) Logger {
	return &kitLogger{l: kitlog.With(l.l, keyvals...)}
}

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything, used as the
// default when no Logger is supplied.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) With(...interface{}) Logger   { return nopLogger{} }
