// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package statuslog provides the newest-first text log shown to operators
// while a search runs.
package statuslog

import (
	"fmt"
	"sync"
	"unicode/utf8"
)

// DefaultMaxBuffer is the number of characters kept by a truncation unless
// configured otherwise.
const DefaultMaxBuffer = 10000

// Renderer receives the full log text every time it changes.
type Renderer func(text string)

// Logger represents the logging methods called.
type Logger interface {
	Debugf(message string, args ...any)
}

// Log is a newest-first text buffer. All methods are safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	text     string
	renderer Renderer
	logger   Logger
}

// NewLog returns an empty Log. The renderer and logger may be nil.
func NewLog(renderer Renderer, logger Logger) *Log {
	return &Log{
		renderer: renderer,
		logger:   logger,
	}
}

// Add inserts a line attributed to source at the front of the log and
// renders the result.
func (l *Log) Add(source, message string) {
	line := fmt.Sprintf("[%s] %s\n", source, message)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.text = line + l.text
	if l.logger != nil {
		l.logger.Debugf("[%s] %s", source, message)
	}
	if l.renderer != nil {
		l.renderer(l.text)
	}
}

// Addf is Add with formatting.
func (l *Log) Addf(source, format string, args ...any) {
	l.Add(source, fmt.Sprintf(format, args...))
}

// Truncate cuts the log down to at most max characters, keeping the newest
// entries. It returns the number of characters dropped.
func (l *Log) Truncate(max int) int {
	if max < 0 {
		max = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	total := utf8.RuneCountInString(l.text)
	if total <= max {
		return 0
	}
	cut, kept := 0, 0
	for kept < max {
		_, size := utf8.DecodeRuneInString(l.text[cut:])
		cut += size
		kept++
	}
	l.text = l.text[:cut]
	if l.renderer != nil {
		l.renderer(l.text)
	}
	return total - kept
}

// Text returns the current log text.
func (l *Log) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Len returns the length of the log text in characters.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return utf8.RuneCountInString(l.text)
}
