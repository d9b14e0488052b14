package log

import (
	"bytes"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestGologLogger_DefaultLevel(t *testing.T) {
	logger := NewGologLogger(golog.New())
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}

func TestGologLogger_SetLevel(t *testing.T) {
	logger := NewGologLogger(golog.New())

	for _, level := range []LogLevel{LogLevelDebug, LogLevelWarn, LogLevelError, LogLevelNone} {
		logger.SetLevel(level)
		assert.Equal(t, level, logger.GetLevel())
	}
}

func TestGologLogger_FormatsArguments(t *testing.T) {
	var buf bytes.Buffer
	glogger := golog.New()
	glogger.SetOutput(&buf)
	glogger.SetTimeFormat("")

	logger := NewGologLogger(glogger)
	logger.SetLevel(LogLevelDebug)
	logger.Info("request %d took %s", 7, "3ms")

	assert.Contains(t, buf.String(), "request 7 took 3ms")
}

func TestGologLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	glogger := golog.New()
	glogger.SetOutput(&buf)

	logger := NewGologLogger(glogger)
	logger.SetLevel(LogLevelError)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("hidden")
	logger.Error("visible %s", "failure")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible failure")
}

func TestGologLogger_NoneSilencesEverything(t *testing.T) {
	var buf bytes.Buffer
	glogger := golog.New()
	glogger.SetOutput(&buf)

	logger := NewGologLogger(glogger)
	logger.SetLevel(LogLevelNone)

	logger.Error("should not appear")
	assert.Empty(t, buf.String())
}
