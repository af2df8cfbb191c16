// Package notify delivers user-facing messages produced by the client core.
package notify

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level classifies a notification the way the original snackbar panels did.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows a message to the operator.
type Notifier interface {
	Success(message string)
	Info(message string)
	Warning(message string)
	Error(message string)
}

// LogNotifier writes notifications as log entries tagged with their level.
type LogNotifier struct {
	logger zerolog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier returns a notifier writing through logger. A nil logger uses the global zerolog logger.
func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	if logger == nil {
		logger = &log.Logger
	}
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info().Str("level_hint", string(LevelSuccess)).Msg(message)
}

func (n *LogNotifier) Info(message string) {
	n.logger.Info().Str("level_hint", string(LevelInfo)).Msg(message)
}

func (n *LogNotifier) Warning(message string) {
	n.logger.Warn().Str("level_hint", string(LevelWarning)).Msg(message)
}

func (n *LogNotifier) Error(message string) {
	n.logger.Error().Str("level_hint", string(LevelError)).Msg(message)
}
