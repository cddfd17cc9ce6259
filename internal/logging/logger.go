// Package logging is the suite's diagnostic sink. Loggers are injected into fixtures
// and page helpers; tests of the harness itself substitute Nop or Capture.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = map[Level]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a config value such as "warning" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// zapLevel maps our levels onto zap's. Critical uses DPanic, which only panics in
// development loggers; ours are never built in development mode.
func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarning:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelCritical:
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger accepts leveled messages. Implementations must never panic or block a test
// on a failed write.
type Logger interface {
	Log(level Level, msg string)
}

func Debugf(l Logger, format string, args ...any) {
	l.Log(LevelDebug, fmt.Sprintf(format, args...))
}

func Infof(l Logger, format string, args ...any) {
	l.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func Warningf(l Logger, format string, args ...any) {
	l.Log(LevelWarning, fmt.Sprintf(format, args...))
}

func Errorf(l Logger, format string, args ...any) {
	l.Log(LevelError, fmt.Sprintf(format, args...))
}

func Criticalf(l Logger, format string, args ...any) {
	l.Log(LevelCritical, fmt.Sprintf(format, args...))
}

// TimeLayout is the timestamp format of every log line.
const TimeLayout = "01/02/2006 03:04:05 PM"

var (
	registryMu sync.Mutex
	registry   = map[string]*FileLogger{}
)

// FileLogger appends leveled lines to one file.
type FileLogger struct {
	path   string
	file   *os.File
	logger *zap.Logger
	once   sync.Once
}

// Option customises a FileLogger on first open.
type Option func(*options)

type options struct {
	level Level
	now   func() time.Time
}

// WithLevel sets the minimum level written. Defaults to info.
func WithLevel(l Level) Option { return func(o *options) { o.level = l } }

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// Open returns the logger attached to path, creating it on first use. Later calls with
// the same path return the existing logger and ignore opts, so a file never gets a
// second handler.
func Open(path string, opts ...Option) (*FileLogger, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := registry[abs]; ok {
		return existing, nil
	}

	o := options{level: LevelInfo, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeLevel:      encodeLevel,
		ConsoleSeparator: " - ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), o.level.zapLevel())
	zl := zap.New(core, zap.WithClock(clock{now: o.now}), zap.ErrorOutput(zapcore.AddSync(discard{})))

	fl := &FileLogger{path: abs, file: f, logger: zl}
	registry[abs] = fl
	return fl, nil
}

// Path returns the absolute file path.
func (l *FileLogger) Path() string { return l.path }

// Log writes msg at level. Failures are swallowed.
func (l *FileLogger) Log(level Level, msg string) {
	defer func() { _ = recover() }()
	if ce := l.logger.Check(level.zapLevel(), msg); ce != nil {
		ce.Write()
	}
}

// Close flushes and detaches the logger from its file.
func (l *FileLogger) Close() error {
	registryMu.Lock()
	if registry[l.path] == l {
		delete(registry, l.path)
	}
	registryMu.Unlock()

	var err error
	l.once.Do(func() {
		_ = l.logger.Sync()
		err = l.file.Close()
	})
	return err
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		enc.AppendString("CRITICAL")
	default:
		enc.AppendString(l.CapitalString())
	}
}

type clock struct{ now func() time.Time }

func (c clock) Now() time.Time { return c.now() }

func (c clock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
