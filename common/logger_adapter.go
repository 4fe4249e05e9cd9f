package common

import (
	"fmt"

	"radio-cms/pkg/log"
)

// Logger is the key/value logging surface used by packages that should not
// depend on zap field constructors.
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Printf(format string, args ...interface{})
}

type LoggerAdapter struct {
	logger log.Logger
}

func NewLoggerAdapter(logger log.Logger) Logger {
	return &LoggerAdapter{logger: logger}
}

func (a *LoggerAdapter) Info(msg string, keyvals ...interface{}) {
	a.logger.Info(msg, toFields(keyvals)...)
}

func (a *LoggerAdapter) Error(msg string, keyvals ...interface{}) {
	a.logger.Error(msg, toFields(keyvals)...)
}

func (a *LoggerAdapter) Debug(msg string, keyvals ...interface{}) {
	a.logger.Debug(msg, toFields(keyvals)...)
}

func (a *LoggerAdapter) Warn(msg string, keyvals ...interface{}) {
	a.logger.Warn(msg, toFields(keyvals)...)
}

func (a *LoggerAdapter) Printf(format string, args ...interface{}) {
	a.logger.Printf(format, args...)
}

// toFields pairs up keyvals; a trailing key without value is dropped.
func toFields(keyvals []interface{}) []log.Field {
	fields := make([]log.Field, 0, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fields = append(fields, log.Any(fmt.Sprintf("%v", keyvals[i]), keyvals[i+1]))
	}
	return fields
}
