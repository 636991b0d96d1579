package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/stockdash/taxengine/internal/calculation"
)

// slogLogger adapts a slog.Logger to calculation.Logger.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s slogLogger) Warnf(format string, args ...any)  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s slogLogger) Errorf(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }

// newLogger writes info and above to w, or everything down to debug level when debug is set.
func newLogger(w io.Writer, debug bool) calculation.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slogLogger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}
