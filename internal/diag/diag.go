// Package diag carries optional diagnostic logging for the editor core.
// It wraps the Wails logger so the core, the desktop shell and the MCP
// server all write through the same sink.
package diag

import (
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Logger filters messages by level before handing them to a Wails logger.
// A nil *Logger discards everything.
type Logger struct {
	out   logger.Logger
	level logger.LogLevel
}

func New(out logger.Logger, level logger.LogLevel) *Logger {
	if out == nil {
		return nil
	}
	return &Logger{out: out, level: level}
}

// ParseLevel maps a config string to a Wails log level. Unknown values fall
// back to INFO.
func ParseLevel(s string) logger.LogLevel {
	if s == "" {
		return logger.INFO
	}
	lvl, err := logger.StringToLogLevel(s)
	if err != nil {
		return logger.INFO
	}
	return lvl
}

func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || l.level > logger.DEBUG {
		return
	}
	l.out.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	if l == nil || l.level > logger.INFO {
		return
	}
	l.out.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil || l.level > logger.WARNING {
		return
	}
	l.out.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.out.Error(fmt.Sprintf(format, args...))
}
