// Package logging provides the leveled, field-carrying logger shared by the
// editor components.
package logging

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	// LevelDebug is for detailed tracing such as probe counts.
	LevelDebug Level = iota
	// LevelInfo is for lifecycle messages.
	LevelInfo
	// LevelWarn is for absorbed failures worth noticing.
	LevelWarn
	// LevelError is for errors.
	LevelError
)

// String returns the level name.
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

// ParseLevel parses a level name. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// sink is shared by a logger and every logger derived from it so that
// level and output changes propagate.
type sink struct {
	mu       sync.Mutex
	level    Level
	output   io.Writer
	disabled bool
}

// Logger writes lines of the form
//
//	2006-01-02T15:04:05.000 [LEVEL] prefix: message {k=v, ...}
type Logger struct {
	sink   *sink
	prefix string
	fields map[string]any
}

// Config configures a logger.
type Config struct {
	Level  Level
	Output io.Writer // defaults to os.Stderr
	Prefix string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		Prefix: "tinyedit",
	}
}

// New creates a logger.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		sink:   &sink{level: cfg.Level, output: cfg.Output},
		prefix: cfg.Prefix,
		fields: map[string]any{},
	}
}

// Null returns a logger that discards everything.
func Null() *Logger {
	return &Logger{sink: &sink{disabled: true, output: io.Discard}}
}

// OpenFile creates a logger appending to path. An empty path yields a
// null logger.
func OpenFile(path string, level Level) (*Logger, io.Closer, error) {
	if path == "" {
		return Null(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Output = f
	return New(cfg), f, nil
}

// WithField returns a derived logger carrying key=value.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a derived logger carrying the given fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)
	return &Logger{sink: l.sink, prefix: l.prefix, fields: merged}
}

// WithComponent returns a derived logger tagged with component.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Level returns the minimum level.
func (l *Logger) Level() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// SetOutput replaces the writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
	l.sink.disabled = w == nil
}

// Disable suppresses all output until Enable is called.
func (l *Logger) Disable() {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.disabled = true
}

// Enable resumes output after Disable.
func (l *Logger) Enable() {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.disabled = l.sink.output == nil
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil || l.sink == nil {
		return
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.disabled || level < l.sink.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02T15:04:05.000"))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	if l.prefix != "" {
		sb.WriteString(l.prefix)
		sb.WriteString(": ")
	}
	sb.WriteString(msg)

	if len(l.fields) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(l.fields)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, l.fields[k])
		}
		sb.WriteString("}")
	}
	sb.WriteByte('\n')

	_, _ = io.WriteString(l.sink.output, sb.String())
}
