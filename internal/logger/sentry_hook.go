package logger

import (
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var sentryLevels = map[logrus.Level]sentry.Level{
	logrus.PanicLevel: sentry.LevelFatal,
	logrus.FatalLevel: sentry.LevelFatal,
	logrus.ErrorLevel: sentry.LevelError,
	logrus.WarnLevel:  sentry.LevelWarning,
}

// SentryHook forwards log entries at or above a threshold to Sentry.
type SentryHook struct {
	hub    *sentry.Hub
	levels []logrus.Level
}

// NewSentryHook creates a hook reporting entries up to and including minLevel.
// minLevel must be at least WarnLevel; lower levels are clamped to it.
func NewSentryHook(hub *sentry.Hub, minLevel logrus.Level) *SentryHook {
	if minLevel > logrus.WarnLevel {
		minLevel = logrus.WarnLevel
	}
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= minLevel {
			levels = append(levels, l)
		}
	}
	return &SentryHook{hub: hub, levels: levels}
}

// Levels implements logrus.Hook.
func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook. Errors attached with WithError are sent as exceptions,
// everything else as a message.
func (h *SentryHook) Fire(entry *logrus.Entry) error {
	err, _ := entry.Data[logrus.ErrorKey].(error)

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevels[entry.Level])
		for k, v := range entry.Data {
			if k == logrus.ErrorKey {
				continue
			}
			if s, ok := v.(string); ok {
				scope.SetTag(k, s)
				continue
			}
			scope.SetExtra(k, v)
		}
		if err != nil {
			scope.SetExtra("message", entry.Message)
			h.hub.CaptureException(err)
			return
		}
		h.hub.CaptureMessage(entry.Message)
	})
	return nil
}
