package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("info-test", Field{Key: "key", Value: "value"})

	output := buf.String()
	assert.Contains(t, output, "info-test")
	assert.Contains(t, output, `"key":"value"`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("debug-test")

	assert.Contains(t, buf.String(), "debug-test")
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("debug-hidden")

	assert.Empty(t, buf.String())
}

func TestZeroLogger_WarnWithError(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Warn("emails unavailable", Err(errors.New("connection reset")), Field{Key: "url", Value: "https://api.example/emails"})

	output := buf.String()
	assert.Contains(t, output, `"level":"warn"`)
	assert.Contains(t, output, `"error":"connection reset"`)
	assert.Contains(t, output, `"url":"https://api.example/emails"`)
}

func TestZeroLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf).With(Field{Key: "attempt_id", Value: "abc"})

	log.Error("error-test")

	output := buf.String()
	assert.Contains(t, output, `"level":"error"`)
	assert.Contains(t, output, `"attempt_id":"abc"`)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		l := Nop()
		l.Debug("x")
		l.Info("x")
		l.Warn("x", Err(errors.New("y")))
		l.Error("x")
	})
}
