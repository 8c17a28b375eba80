// Package logging provides a structured logging system for acb that supports
// both direct (CLI) and buffered-channel (embedding application) output,
// so the core can log consistently whether it is driving a terminal itself
// or handing log entries to a host application's own UI.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel mirrors slog's levels with acb's own int scale so call sites
// don't need to import log/slog directly.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
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

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Entry is one log record, exposed so an embedding application can consume
// entries from the channel returned by InitForHost instead of a raw writer.
type Entry struct {
	Timestamp time.Time
	Level     LogLevel
	Subsystem string
	Message   string
	Err       error
}

var (
	defaultLogger *slog.Logger
	hostChannel   chan Entry
	hostMode      bool
)

const hostChannelBufferSize = 2048

// InitForCLI initializes the logger for direct output to a writer. Until
// InitForCLI or InitForHost is called, log calls produce no output.
func InitForCLI(level LogLevel, output io.Writer) {
	hostMode = false
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level.SlogLevel()})
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// InitForHost initializes the logger to hand entries to an embedding
// application over a buffered channel instead of writing them directly, for
// an embedder that does not want the core writing to its terminal.
func InitForHost(level LogLevel) <-chan Entry {
	hostMode = true
	hostChannel = make(chan Entry, hostChannelBufferSize)
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level.SlogLevel()}))
	return hostChannel
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	if !hostMode {
		if defaultLogger == nil || !defaultLogger.Enabled(context.Background(), level.SlogLevel()) {
			return
		}
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}
	now := time.Now()

	if hostMode {
		entry := Entry{Timestamp: now, Level: level, Subsystem: subsystem, Message: msg, Err: err}
		select {
		case hostChannel <- entry:
		default:
			fmt.Fprintf(os.Stderr, "[logging] channel full, dropping: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
		}
		return
	}

	if defaultLogger == nil {
		fmt.Fprintf(os.Stderr, "[logging] not initialized: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
		return
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
