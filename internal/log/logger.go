package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"ferret/internal/errors"
)

var (
	minLevel atomic.Uint32
	logger   = NewLogger()
)

func init() {
	minLevel.Store(uint32(logrus.InfoLevel))
}

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, optionally structured, log lines through logrus.
// The minimum level is process-wide and controlled by SetDebug/SetLevel.
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	file   *os.File
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput directs the logger to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches the logger to JSON lines.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(jsonFormatter())
	}
}

// WithFile writes to stdout and appends to the file at path.
// If the file cannot be opened the logger keeps writing to stdout only.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(io.MultiWriter(os.Stdout, f))
	}
}

func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetFormatter(&lineFormatter{})
	// Filtering happens in enabled(); logrus must let everything through.
	base.SetLevel(logrus.TraceLevel)
	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases the log file opened by WithFile, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	if debug {
		minLevel.Store(uint32(logrus.DebugLevel))
		return
	}
	if logrus.Level(minLevel.Load()) == logrus.DebugLevel {
		minLevel.Store(uint32(logrus.InfoLevel))
	}
}

// SetLevel sets the minimum level from its name (debug, info, warn, error).
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	minLevel.Store(uint32(lvl))
	return nil
}

// IsDebug reports whether debug lines are written.
func IsDebug() bool {
	return enabled(logrus.DebugLevel)
}

// SetFormat switches the package logger between "text" and "json".
func SetFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		logger.base.SetFormatter(&lineFormatter{})
	case "json":
		logger.base.SetFormatter(jsonFormatter())
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	logger.base.SetOutput(w)
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger annotated with err and, for
// application errors, its kind and subject (path, param, pattern, mountpoint).
func LogWithError(err error) *Logger {
	return logger.With(errorFields(err)...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{F("error", err.Error())}

	// The outermost application error in the chain wins.
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch t := e.(type) {
		case *errors.FileError:
			return append(fields, F("error_kind", int(t.Kind())), F("path", t.Path()))
		case *errors.ConfigError:
			return append(fields, F("error_kind", int(t.Kind())), F("param", t.Param()))
		case *errors.PatternError:
			return append(fields, F("error_kind", int(t.Kind())), F("pattern", t.Pattern()))
		case *errors.VolumeError:
			return append(fields, F("error_kind", int(t.Kind())), F("mountpoint", t.Mountpoint()))
		case *errors.ApplicationError:
			return append(fields, F("error_kind", int(t.Kind())))
		}
	}
	return fields
}

func enabled(lvl logrus.Level) bool {
	return lvl <= logrus.Level(minLevel.Load())
}

// With returns a child logger carrying the given fields in addition to the parent's.
func (l *Logger) With(fields ...Field) *Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{base: l.base, fields: merged}
}

func (l *Logger) log(lvl logrus.Level, format string, args ...interface{}) {
	if !enabled(lvl) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.base.WithFields(l.fields).Log(lvl, msg)
}

func (l *Logger) Info(format string, args ...interface{})   { l.log(logrus.InfoLevel, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(logrus.InfoLevel, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})   { l.log(logrus.WarnLevel, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(logrus.WarnLevel, format, args...) }
func (l *Logger) Error(format string, args ...interface{})  { l.log(logrus.ErrorLevel, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(logrus.ErrorLevel, format, args...) }
func (l *Logger) Debug(format string, args ...interface{})  { l.log(logrus.DebugLevel, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(logrus.DebugLevel, format, args...) }

func Info(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, format, args...)
}

// Infof logs a formatted message
func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, format, args...)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	logger.log(logrus.DebugLevel, format, args...)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	logger.log(logrus.DebugLevel, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, format, args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, format, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, format, args...)
}

const timeLayout = "2006-01-02 15:04:05"

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		TimestampFormat: timeLayout,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	}
}

// lineFormatter renders "[time] LEVEL: message key=value ..." with keys sorted.
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", entry.Time.Format(timeLayout), levelName(entry.Level), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(lvl logrus.Level) string {
	if lvl == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(lvl.String())
}
