// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides a small leveled-logging facade so that the parser
// can report non-fatal diagnostics (a skipped anomaly, a fallback taken)
// without depending on a particular logging backend.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a log severity.
type Level int

// Log levels, increasing in severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger logs a leveled message built from alternating key/value pairs.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger is a Logger backed by the standard library's log.Logger.
type stdLogger struct {
	*log.Logger
}

// NewStdLogger builds a Logger that writes to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{Logger: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}
	msg := level.String()
	for i := 0; i < len(keyvals); i += 2 {
		msg += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	l.Logger.Println(msg)
	return nil
}

// filter wraps a Logger and drops messages below a minimum level.
type filter struct {
	logger Logger
	level  Level
}

// FilterOption configures a filtering Logger built by NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level that passes through the filter.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.level = level }
}

// NewFilter wraps logger so that only messages at or above the configured
// level (LevelInfo by default) are logged.
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &filter{logger: logger, level: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.logger.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	Logger
}

// NewHelper wraps logger in a Helper. A nil logger yields a Helper that
// discards everything, so callers never need a nil check.
func NewHelper(logger Logger) *Helper {
	if logger == nil {
		logger = NewFilter(NewStdLogger(os.Stdout), FilterLevel(LevelError+1))
	}
	return &Helper{Logger: logger}
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	_ = h.Log(LevelDebug, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Infof(format string, args ...interface{}) {
	_ = h.Log(LevelInfo, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	_ = h.Log(LevelWarn, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	_ = h.Log(LevelError, "msg", fmt.Sprintf(format, args...))
}
