// Package zerolog adapts a zerolog.Logger to gopay.Logger.
package zerolog

import (
	"github.com/rs/zerolog"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

// Logger implements gopay.Logger using zerolog.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger wraps logger. Level filtering is left to the zerolog logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Debug(msg string, fields ...gopay.Field) { l.log(l.logger.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...gopay.Field)  { l.log(l.logger.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...gopay.Field)  { l.log(l.logger.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...gopay.Field) { l.log(l.logger.Error(), msg, fields) }

func (l *Logger) log(event *zerolog.Event, msg string, fields []gopay.Field) {
	// a disabled level yields a nil event
	if event == nil {
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	event.Msg(msg)
}

var _ gopay.Logger = (*Logger)(nil)
