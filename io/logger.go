package snapio

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat defines the output format for log messages
type LogFormat int

const (
	LogFormatCircles LogFormat = iota // 🔵 🟢 🟡 🔴 🟣
	LogFormatSymbols                  // ◆ ✓ ▲ ✗ ●
	LogFormatTagged                   // [INFO] [SUCCESS] [WARN] [ERROR] [DEBUG]
	LogFormatPlain                    // No prefix
	LogFormatCustom                   // User-defined template
)

// Logger writes leveled, prefixed and colored lines to an IOManager.
// Messages below the minimum level (Info by default) are dropped.
type Logger struct {
	mu           sync.Mutex
	io           *IOManager
	format       LogFormat
	template     string
	prefixes     map[LogLevel]string
	min          LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	theme        Theme
	now          func() time.Time
}

// NewLogger creates a new logger bound to the given IOManager
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:           io,
		format:       LogFormatCircles,
		prefixes:     prefixesFor(LogFormatCircles),
		min:          LevelInfo,
		errorsStderr: true,
		timeFormat:   "15:04:05",
		theme:        DefaultTheme(),
		now:          time.Now,
	}
}

func prefixesFor(format LogFormat) map[LogLevel]string {
	switch format {
	case LogFormatCircles:
		return map[LogLevel]string{
			LevelDebug:   "🟣",
			LevelInfo:    "🔵",
			LevelSuccess: "🟢",
			LevelWarning: "🟡",
			LevelError:   "🔴",
		}
	case LogFormatSymbols:
		return map[LogLevel]string{
			LevelDebug:   "●",
			LevelInfo:    "◆",
			LevelSuccess: "✓",
			LevelWarning: "▲",
			LevelError:   "✗",
		}
	case LogFormatTagged:
		return map[LogLevel]string{
			LevelDebug:   "[DEBUG]",
			LevelInfo:    "[INFO]",
			LevelSuccess: "[SUCCESS]",
			LevelWarning: "[WARN]",
			LevelError:   "[ERROR]",
		}
	}
	return map[LogLevel]string{}
}

// WithFormat sets the log format and resets the prefixes to that format's set.
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	if format != LogFormatCustom {
		l.prefixes = prefixesFor(format)
	}
	return l
}

// WithTemplate sets a custom line template and switches to LogFormatCustom.
// Template variables: {{.Level}}, {{.Time}}, {{.Message}}, {{.Prefix}}
func (l *Logger) WithTemplate(template string) *Logger {
	l.template = template
	l.format = LogFormatCustom
	return l
}

// SetPrefix sets a custom prefix for a specific log level
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	l.prefixes[level] = prefix
	return l
}

// WithLevel sets the minimum level that is written.
func (l *Logger) WithLevel(min LogLevel) *Logger {
	l.min = min
	return l
}

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time format (Go time format string)
func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// WithTheme sets a custom theme for semantic colors
func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level LogLevel) bool { return level >= l.min }

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	line := l.formatMessage(level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.selectWriter(level), line)
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	if l.format == LogFormatCustom && l.template != "" {
		return l.formatCustomTemplate(level, msg)
	}
	// blank lines pass through unprefixed
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	var b strings.Builder
	if p := l.prefixes[level]; p != "" && l.format != LogFormatPlain {
		b.WriteString(p)
		b.WriteByte(' ')
	}
	if l.withTime {
		b.WriteByte('[')
		b.WriteString(l.now().Format(l.timeFormat))
		b.WriteString("] ")
	}
	b.WriteString(msg)
	return l.theme.forLevel(level).Sprint(l.io, b.String())
}

func (l *Logger) formatCustomTemplate(level LogLevel, msg string) string {
	r := strings.NewReplacer(
		"{{.Level}}", level.String(),
		"{{.Message}}", msg,
		"{{.Prefix}}", l.prefixes[level],
		"{{.Time}}", l.now().Format(l.timeFormat),
	)
	return l.theme.forLevel(level).Sprint(l.io, r.Replace(l.template))
}

func (l *Logger) selectWriter(level LogLevel) io.Writer {
	if l.errorsStderr && (level == LevelError || level == LevelWarning) {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) { l.Log(LevelDebug, format, args...) }

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Success logs a success message
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }

// Error logs an error message
func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }
