package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tm-lightclient/lightclient/libs/log"
)

func TestNopLogger_DiscardsEverything(t *testing.T) {
	l := log.NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg", "k", "v")
		l.Info("msg", "k", "v")
		l.Error("msg", "k", "v")
		l.With("k", "v").Info("msg")
	})
}

func TestLogfmtLogger_DoesNotPanic(t *testing.T) {
	l := log.NewLogfmtLogger()
	assert.NotPanics(t, func() {
		l.With("component", "test").Debug("hello", "height", 5)
	})
}
