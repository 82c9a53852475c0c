package logx

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Logger writes structured entries. A Logger is created once by the
// composition root and passed down; child loggers from With share the
// writer and lock of their parent.
type Logger struct {
	cfg       Config
	level     Level
	formatter Formatter
	redact    []string
	base      Fields

	mu     *sync.Mutex
	writer io.Writer
	now    func() time.Time
}

func New(cfg Config) *Logger {
	var formatter Formatter
	switch cfg.Format {
	case FormatJSON:
		formatter = NewJSONFormatter(cfg)
	default:
		formatter = NewConsoleFormatter(cfg)
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stdout
	}

	redact := make([]string, 0, len(cfg.RedactKeys))
	for _, k := range cfg.RedactKeys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			redact = append(redact, k)
		}
	}

	return &Logger{
		cfg:       cfg,
		level:     ParseLevel(cfg.Level),
		formatter: formatter,
		redact:    redact,
		mu:        &sync.Mutex{},
		writer:    writer,
		now:       time.Now,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	cfg := DefaultConfig()
	cfg.Level = "off"
	cfg.Output = io.Discard
	return New(cfg)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields Fields) *Logger {
	child := *l
	child.base = make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		child.base[k] = v
	}
	for k, v := range fields {
		child.base[k] = v
	}
	return &child
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) log(level Level, msg string, fields Fields, data interface{}, err error) {
	if !l.level.Enabled(level) {
		return
	}

	merged := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = l.scrub(k, v)
	}
	for k, v := range fields {
		merged[k] = l.scrub(k, v)
	}

	entry := &LogEntry{
		Level:     level,
		Message:   msg,
		Fields:    merged,
		Data:      data,
		Error:     err,
		Timestamp: l.now(),
	}
	if l.cfg.EnableCaller {
		entry.Caller = getCaller(3)
	}

	formatted, formatErr := l.formatter.Format(entry)
	if formatErr != nil {
		fmt.Fprintf(os.Stderr, "logx: format: %v\n", formatErr)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, writeErr := l.writer.Write(formatted); writeErr != nil {
		fmt.Fprintf(os.Stderr, "logx: write: %v\n", writeErr)
	}
}

const redacted = "[REDACTED]"

func (l *Logger) scrub(key string, value interface{}) interface{} {
	lower := strings.ToLower(key)
	for _, r := range l.redact {
		if strings.Contains(lower, r) {
			return redacted
		}
	}
	return value
}

func (l *Logger) WithField(key string, value interface{}) *Entry {
	return newEntry(l).WithField(key, value)
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return newEntry(l).WithFields(fields)
}

func (l *Logger) WithError(err error) *Entry {
	return newEntry(l).WithError(err)
}

func (l *Logger) Debug(msg string) { newEntry(l).Debug(msg) }
func (l *Logger) Info(msg string)  { newEntry(l).Info(msg) }
func (l *Logger) Warn(msg string)  { newEntry(l).Warn(msg) }
func (l *Logger) Error(msg string) { newEntry(l).Error(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	newEntry(l).Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	newEntry(l).Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	newEntry(l).Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	newEntry(l).Errorf(format, args...)
}

func getCaller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	if i := strings.LastIndex(file, "/"); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}
