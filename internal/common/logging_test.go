package common

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	ConfigureLogger(l, buf, "rpminspect-json2text", false)

	l.Debug("hidden")
	require.Empty(t, buf.String())

	l.Info("test message")
	out := buf.String()
	assert.Contains(t, out, "level=info msg=\"test message\"")
	assert.Contains(t, out, "tool=rpminspect-json2text")
	assert.Contains(t, out, "build_commit="+BuildCommit)
}

func TestConfigureLoggerDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	ConfigureLogger(l, buf, "test", true)

	l.Debug("shown")
	assert.Contains(t, buf.String(), "level=debug msg=shown")
}

func TestConfigureLoggerReplacesHooks(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	ConfigureLogger(l, buf, "first", false)
	ConfigureLogger(l, buf, "second", false)

	l.Info("once")
	assert.Contains(t, buf.String(), "tool=second")
	assert.NotContains(t, buf.String(), "tool=first")
}
