// Package stdlogger adapts the global zerolog logger to the printf style
// logger interface of the go-redis client.
package stdlogger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages to the global zerolog logger.
type Logger struct {
	component string
}

// New returns a Logger. An optional component name is added to every line.
func New(component ...string) *Logger {
	l := &Logger{}
	if len(component) > 0 {
		l.component = component[0]
	}

	return l
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Printf implements the go-redis logging interface. Redis client messages
// report connection trouble, so they are logged as warnings.
func (l *Logger) Printf(_ context.Context, format string, v ...any) {
	l.event(zerolog.WarnLevel).Msg(fmt.Sprintf(format, v...))
}
