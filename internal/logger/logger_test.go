package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	original := Logger.GetLevel()
	t.Cleanup(func() { Logger.SetLevel(original) })

	assert.True(t, SetLevel("DEBUG"))
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())

	assert.False(t, SetLevel("verbose"))
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel(), "unknown levels leave the level unchanged")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	out := Logger.Out
	Logger.SetOutput(&buf)
	t.Cleanup(func() { Logger.SetOutput(out) })

	entry := WithComponent("cache")
	assert.Equal(t, "cache", entry.Data["component"])

	entry.Info("hello")
	assert.Contains(t, buf.String(), "component=cache")
	assert.Contains(t, buf.String(), "msg=hello")
}
