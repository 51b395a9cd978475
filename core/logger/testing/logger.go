// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"fmt"
	"sync"
)

// RecordingLogger is a logger.Logger that keeps every formatted message,
// prefixed with its level, so tests can assert on what workers logged.
type RecordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (r *RecordingLogger) record(level, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, level+": "+fmt.Sprintf(msg, args...))
}

// Messages returns a copy of the recorded messages, oldest first.
func (r *RecordingLogger) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func (r *RecordingLogger) Errorf(msg string, args ...any)   { r.record("ERROR", msg, args...) }
func (r *RecordingLogger) Warningf(msg string, args ...any) { r.record("WARNING", msg, args...) }
func (r *RecordingLogger) Infof(msg string, args ...any)    { r.record("INFO", msg, args...) }
func (r *RecordingLogger) Debugf(msg string, args ...any)   { r.record("DEBUG", msg, args...) }
func (r *RecordingLogger) Tracef(msg string, args ...any)   { r.record("TRACE", msg, args...) }
func (r *RecordingLogger) IsTraceEnabled() bool             { return true }

// CheckLog is an interface that can be used to log messages to a
// *testing.T or *check.C.
type CheckLog interface {
	Logf(string, ...any)
}

// CheckLogger is a logger.Logger that logs to a *testing.T or *check.C.
type CheckLogger struct {
	Log CheckLog
}

// WrapCheckLog returns a CheckLogger that logs to the given CheckLog.
func WrapCheckLog(log CheckLog) CheckLogger {
	return CheckLogger{Log: log}
}

func (c CheckLogger) Errorf(msg string, args ...any) {
	c.Log.Logf(fmt.Sprintf("ERROR: %s", msg), args...)
}
func (c CheckLogger) Warningf(msg string, args ...any) {
	c.Log.Logf(fmt.Sprintf("WARNING: %s", msg), args...)
}
func (c CheckLogger) Infof(msg string, args ...any) {
	c.Log.Logf(fmt.Sprintf("INFO: %s", msg), args...)
}
func (c CheckLogger) Debugf(msg string, args ...any) {
	c.Log.Logf(fmt.Sprintf("DEBUG: %s", msg), args...)
}
func (c CheckLogger) Tracef(msg string, args ...any) {
	c.Log.Logf(fmt.Sprintf("TRACE: %s", msg), args...)
}
func (c CheckLogger) IsTraceEnabled() bool { return true }
