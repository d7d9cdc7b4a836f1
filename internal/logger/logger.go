package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level     // Minimum log level
	FilePath   string    // Path to log file, empty disables file output
	MaxSize    int64     // Max size in bytes before rotation
	MaxAge     int       // Max age in days
	MaxBackups int       // Max number of backup files
	Console    bool      // Mirror entries to stderr
	Writer     io.Writer // Extra output, used by tests
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".ptask", "logs", "ptask.log")
	}

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // keeps the TUI clean
	}
}

// output is shared by a logger and every child created with WithFields
type output struct {
	mu      sync.Mutex
	config  Config
	file    *os.File
	writers []io.Writer
}

// Logger writes levelled, key=value annotated entries
type Logger struct {
	out    *output
	fields []Field
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init creates a logger from config and installs it as the process default
func Init(config Config, fields ...Field) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	SetDefault(l.WithFields(fields...))
	return nil
}

// SetDefault installs l as the logger used by the package-level functions
func SetDefault(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Default returns the process logger, or nil before Init
func Default() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	out := &output{config: config}

	if config.FilePath != "" {
		logDir := filepath.Dir(config.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out.file = file

		if err := out.rotateIfNeeded(); err != nil {
			return nil, err
		}
	}
	out.resetWriters()

	return &Logger{out: out}, nil
}

func (o *output) resetWriters() {
	o.writers = o.writers[:0]
	if o.file != nil {
		o.writers = append(o.writers, o.file)
	}
	if o.config.Console {
		o.writers = append(o.writers, os.Stderr)
	}
	if o.config.Writer != nil {
		o.writers = append(o.writers, o.config.Writer)
	}
}

// rotateIfNeeded rotates the log file when it is too large or too old.
// Callers hold o.mu or own o exclusively.
func (o *output) rotateIfNeeded() error {
	if o.file == nil {
		return nil
	}

	info, err := o.file.Stat()
	if err != nil {
		return err
	}

	if o.config.MaxSize > 0 && info.Size() >= o.config.MaxSize {
		return o.rotate()
	}
	if o.config.MaxAge > 0 && info.Size() > 0 &&
		time.Since(info.ModTime()) > time.Duration(o.config.MaxAge)*24*time.Hour {
		return o.rotate()
	}
	return nil
}

func (o *output) rotate() error {
	if o.file != nil {
		_ = o.file.Close()
	}

	for i := o.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", o.config.FilePath, i)
		newPath := fmt.Sprintf("%s.%d", o.config.FilePath, i+1)
		_ = os.Rename(oldPath, newPath)
	}

	if _, err := os.Stat(o.config.FilePath); err == nil {
		if err := os.Rename(o.config.FilePath, o.config.FilePath+".1"); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(o.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	o.file = file
	o.resetWriters()
	return nil
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if l == nil || level < l.out.config.Level {
		return
	}

	// skip log, the exported method and, for package-level calls, the wrapper
	_, file, line, ok := runtime.Caller(3)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s %s: %s",
		time.Now().Format("2006-01-02 15:04:05.000"), level.String(), caller, msg))

	if len(l.fields)+len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range l.fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
		for _, f := range fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
	}
	b.WriteString("\n")
	entry := []byte(b.String())

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	_ = l.out.rotateIfNeeded()
	for _, w := range l.out.writers {
		_, _ = w.Write(entry)
	}
}

// WithFields creates a child logger with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	if l == nil {
		return nil
	}
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{out: l.out, fields: merged}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) { l.logf(DEBUG, msg, fields) }

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) { l.logf(INFO, msg, fields) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) { l.logf(WARN, msg, fields) }

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) { l.logf(ERROR, msg, fields) }

// logf keeps method calls at the same stack depth as package-level calls
func (l *Logger) logf(level Level, msg string, fields []Field) {
	l.log(level, msg, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.file != nil {
		err := l.out.file.Close()
		l.out.file = nil
		l.out.resetWriters()
		return err
	}
	return nil
}

// Global logger functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	Default().logf(DEBUG, msg, fields)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	Default().logf(INFO, msg, fields)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	Default().logf(WARN, msg, fields)
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	Default().logf(ERROR, msg, fields)
}

// WithFields creates a new logger with preset fields using the global logger
func WithFields(fields ...Field) *Logger {
	return Default().WithFields(fields...)
}

// Close closes the global logger
func Close() error {
	return Default().Close()
}

// GetConfig returns the current logger configuration
func GetConfig() Config {
	if l := Default(); l != nil {
		return l.out.config
	}
	return DefaultConfig()
}
