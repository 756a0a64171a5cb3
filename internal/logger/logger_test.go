package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withCapturedOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestVerboseGatesDebugInfoWarn(t *testing.T) {
	buf := withCapturedOutput(t)

	SetVerbose(false)
	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	assert.Contains(t, buf.String(), "[DEBUG] debug 1")
	assert.Contains(t, buf.String(), "[INFO] info 2")
	assert.Contains(t, buf.String(), "[WARN] warn 3")
}

func TestErrorAlwaysPrints(t *testing.T) {
	buf := withCapturedOutput(t)

	SetVerbose(false)
	Error("broken: %v", "boom")
	assert.Contains(t, buf.String(), "[ERROR] broken: boom")
}

func TestIsVerbose(t *testing.T) {
	withCapturedOutput(t)

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
