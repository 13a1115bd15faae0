package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(prev)
		SetVerbose(false)
	})
	return &buf
}

func TestDebugEnabled(t *testing.T) {
	t.Setenv("TODO_DEBUG", "")
	SetVerbose(false)
	assert.False(t, DebugEnabled(), "should be off when TODO_DEBUG is empty")

	t.Setenv("TODO_DEBUG", "1")
	assert.True(t, DebugEnabled(), "should be on when TODO_DEBUG is set")

	t.Setenv("TODO_DEBUG", "")
	SetVerbose(true)
	defer SetVerbose(false)
	assert.True(t, DebugEnabled(), "should be on when verbose")
}

func TestDebugf(t *testing.T) {
	buf := captureOutput(t)

	t.Setenv("TODO_DEBUG", "")
	Debugf("hidden %s", "value")
	assert.Empty(t, buf.String())

	t.Setenv("TODO_DEBUG", "1")
	Debugf("shown %s\n", "value")
	assert.Equal(t, "shown value\n", buf.String())
}

func TestDebugln(t *testing.T) {
	buf := captureOutput(t)
	t.Setenv("TODO_DEBUG", "")
	SetVerbose(true)

	Debugln("loaded", 3, "tasks")
	assert.Equal(t, "loaded 3 tasks\n", buf.String())
}

func TestWarnf(t *testing.T) {
	buf := captureOutput(t)
	t.Setenv("TODO_DEBUG", "")

	Warnf("save failed: %v", "disk full")
	assert.Equal(t, "warning: save failed: disk full\n", buf.String())
}
