package internal

import (
	"log"
	"os"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// Logger provides leveled logging. A prefix tags every line, e.g. with a batch run ID.
type Logger struct {
	level  LogLevel
	prefix string
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	level, ok := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if !ok {
		level = LogLevelInfo
	}
	return &Logger{level: level}
}

// ParseLogLevel maps ERROR/WARN/INFO/DEBUG/TRACE (any case) to a level
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError, true
	case "WARN":
		return LogLevelWarn, true
	case "INFO":
		return LogLevelInfo, true
	case "DEBUG":
		return LogLevelDebug, true
	case "TRACE":
		return LogLevelTrace, true
	}
	return LogLevelInfo, false
}

// With returns a child logger whose lines carry the given tag
func (l *Logger) With(tag string) *Logger {
	prefix := "[" + tag + "] "
	return &Logger{level: l.level, prefix: l.prefix + prefix}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		log.Printf("[ERROR] "+l.prefix+format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		log.Printf("[WARN] "+l.prefix+format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		log.Printf("[INFO] "+l.prefix+format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		log.Printf("[DEBUG] "+l.prefix+format, args...)
	}
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		log.Printf("[TRACE] "+l.prefix+format, args...)
	}
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
