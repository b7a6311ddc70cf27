package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityFromString_UnrecognizedFallsBackToInfo(t *testing.T) {
	assert.Equal(t, LevelInfo, severityFromString("bogus"))
	assert.Equal(t, LevelTrace, severityFromString("trace"))
	assert.Equal(t, LevelOff, severityFromString("OFF"))
}

func TestLoggerFactory_TextHandler_RelabelsSeverity(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	lv.Set(LevelTrace)
	f := &loggerFactory{programLevel: lv, format: "text", writer: &buf}

	l := slog.New(f.handler())
	l.Log(context.Background(), LevelWarn, "disk almost full")

	require.Contains(t, buf.String(), `severity=WARNING`)
	require.Contains(t, buf.String(), "disk almost full")
}

func TestLoggerFactory_JSONHandler_RelabelsSeverity(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	lv.Set(LevelTrace)
	f := &loggerFactory{programLevel: lv, format: "json", writer: &buf}

	l := slog.New(f.handler())
	l.Log(context.Background(), LevelError, "rule store finalize failed")

	require.Contains(t, buf.String(), `"severity":"ERROR"`)
}

func TestInit_FiltersBelowConfiguredSeverity(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Severity: "WARNING", Format: "text"})
	defaultFactory.writer = &buf
	defaultLogger = slog.New(defaultFactory.handler())

	Debugf("should be filtered out")
	Warnf("should appear")

	assert.NotContains(t, buf.String(), "should be filtered out")
	assert.Contains(t, buf.String(), "should appear")
}
