package logger

import (
	"errors"
	"io"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturingHub(t *testing.T) (*sentry.Hub, *[]*sentry.Event) {
	t.Helper()
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn: "https://public@sentry.invalid/1",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), &events
}

func newHookedLogger(hook logrus.Hook) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.AddHook(hook)
	return l
}

func TestNewSentryHook_Levels(t *testing.T) {
	hub, _ := newCapturingHub(t)

	hook := NewSentryHook(hub, logrus.ErrorLevel)
	assert.ElementsMatch(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}, hook.Levels())

	clamped := NewSentryHook(hub, logrus.DebugLevel)
	assert.NotContains(t, clamped.Levels(), logrus.InfoLevel)
	assert.Contains(t, clamped.Levels(), logrus.WarnLevel)
}

func TestSentryHook_CapturesErrorsAsExceptions(t *testing.T) {
	hub, events := newCapturingHub(t)
	l := newHookedLogger(NewSentryHook(hub, logrus.WarnLevel))

	l.WithError(errors.New("redis down")).
		WithFields(logrus.Fields{"component": "cache", "attempt": 3}).
		Error("Cache write failed")

	require.Len(t, *events, 1)
	ev := (*events)[0]
	assert.Equal(t, sentry.LevelError, ev.Level)
	assert.Equal(t, "cache", ev.Tags["component"])
	assert.Equal(t, 3, ev.Extra["attempt"])
	assert.Equal(t, "Cache write failed", ev.Extra["message"])
	require.NotEmpty(t, ev.Exception)
	assert.Equal(t, "redis down", ev.Exception[len(ev.Exception)-1].Value)
}

func TestSentryHook_CapturesMessages(t *testing.T) {
	hub, events := newCapturingHub(t)
	l := newHookedLogger(NewSentryHook(hub, logrus.WarnLevel))

	l.Info("not reported")
	l.WithField("key", "suggestions:all").Warn("Cache invalidation failed")

	require.Len(t, *events, 1)
	ev := (*events)[0]
	assert.Equal(t, sentry.LevelWarning, ev.Level)
	assert.Equal(t, "Cache invalidation failed", ev.Message)
	assert.Equal(t, "suggestions:all", ev.Tags["key"])
}
