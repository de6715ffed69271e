package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("test")
	logger.Info("hidden")
	logger.Warning("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "[test]")
	assert.Contains(t, out, "WARN")
}

func TestSetSinkKeepsLevel(t *testing.T) {
	SetLevel(Debug)
	defer SetLevel(Notice)

	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	New("test").Debug("frame stats")
	assert.Contains(t, buf.String(), "frame stats")
	assert.Equal(t, Debug, CurrentLevel())
}

func TestFromFlags(t *testing.T) {
	assert.Equal(t, Notice, FromFlags(false, false))
	assert.Equal(t, Info, FromFlags(true, false))
	assert.Equal(t, Debug, FromFlags(true, true))
	assert.Equal(t, Debug, FromFlags(false, true))
	assert.Equal(t, "INFO", Info.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}
