// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/stagehand-dev/stagehand/internal/core/ports"
)

// messager describes an error that can report its own message without
// the chain. This matches the Message() method provided by zerr.Error
// (go.trai.ch/zerr v0.3.0+). Errors without it fall back to Error().
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	mu     sync.RWMutex
	json   bool
	output io.Writer
}

// New creates a Logger writing colored console output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(NewConsoleHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
		output: os.Stderr,
	}
}

// SetOutput redirects the logger. The current JSON setting is kept.
// A nil writer resets to stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON records and console output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.json = enable
	l.rebuild()
}

// rebuild swaps the slog handler. Callers must hold mu.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.json {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewConsoleHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs an advisory.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.json {
		l.logger.Error("staging failed", "error", err)
		return
	}

	l.logger.Error(formatChain(err))
}

// formatChain renders an error and its causes hierarchically. zerr
// errors contribute their own message per link; the first non-zerr
// error terminates the walk with its full text.
func formatChain(err error) string {
	var messages []string
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		messages = append(messages, m.Message())
		current = errors.Unwrap(current)
	}

	var lines []string
	for i, msg := range messages {
		parts := strings.Split(msg, "\n")

		switch {
		case i == 0:
			lines = append(lines, "Error: "+parts[0])
			for _, p := range parts[1:] {
				lines = append(lines, "       "+p)
			}
		default:
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lines = append(lines, "    → "+parts[0])
			for _, p := range parts[1:] {
				lines = append(lines, "      "+p)
			}
		}
	}

	return strings.Join(lines, "\n")
}
