package docfill

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel controls logger verbosity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelOff
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func parseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "off", "none":
		return LogLevelOff
	default:
		return LogLevelWarn
	}
}

// Fields carries structured key/value context on a log line.
type Fields map[string]interface{}

// Logger writes timestamped, leveled log lines with optional fields.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	level  LogLevel
	fields Fields
}

// NewLogger creates a logger writing to w at the given level.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{writer: w, level: level}
}

// WithField returns a copy of the logger with one extra field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a copy of the logger with the fields attached.
func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{writer: l.writer, level: l.level, fields: merged}
}

// SetLevel changes the logger's verbosity.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetWriter changes the logger's output destination.
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

func (l *Logger) log(level LogLevel, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.writer == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	if len(args) > 0 {
		sb.WriteString(fmt.Sprintf(msg, args...))
	} else {
		sb.WriteString(msg)
	}
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, l.fields[k]))
		}
	}
	sb.WriteByte('\n')
	fmt.Fprint(l.writer, sb.String())
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(LogLevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(LogLevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(LogLevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(LogLevelError, msg, args...) }

// IsDebugEnabled reports whether debug lines would be written. Hot paths
// check it before assembling expensive debug output.
func (l *Logger) IsDebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level <= LogLevelDebug
}

var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
	globalLoggerMu   sync.RWMutex
)

func initGlobalLogger() {
	cfg := GetGlobalConfig()
	globalLogger = NewLogger(os.Stderr, parseLogLevel(cfg.LogLevel))
}

// GetLogger returns the package-wide logger, initializing it from the
// global config on first use.
func GetLogger() *Logger {
	globalLoggerOnce.Do(initGlobalLogger)
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// SetLogger replaces the package-wide logger.
func SetLogger(l *Logger) {
	globalLoggerOnce.Do(initGlobalLogger)
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = l
}

// UpdateLoggerFromConfig applies a config's log level to the global logger.
func UpdateLoggerFromConfig(cfg *Config) {
	GetLogger().SetLevel(parseLogLevel(cfg.LogLevel))
}
