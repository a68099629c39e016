// Package log provides the structured logging facade used across this
// module's ambient layers (relay, internal/config, cmd). Package reconcile
// itself never logs: it is a pure, side-effect-free data structure, and
// observability is entirely the relay loop's concern (see SPEC_FULL.md §7).
package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// mainLoggerName names the global default logger.
const mainLoggerName = "txreconciled"

// logwriter is where logs go by default; tests swap it out to capture output.
var logwriter io.Writer = os.Stdout

// defaultEncoder is the console encoder configuration used by NewWithLevel,
// and so by the global logger.
var defaultEncoder = zap.NewDevelopmentEncoderConfig()

// Logger is the logging API surface this package exposes.
type Logger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
	Panic(format string, args ...any)
	Error(format string, args ...any)
	Warning(format string, args ...any)
	With() FieldLogger
	WithName(string) Log
}

var (
	mu     sync.RWMutex
	AppLog Log
)

// GetLogger returns the current global logger.
func GetLogger() Log {
	mu.RLock()
	defer mu.RUnlock()
	return AppLog
}

// SetupGlobal overwrites the global logger.
func SetupGlobal(logger Log) {
	mu.Lock()
	defer mu.Unlock()
	AppLog = logger
}

func init() {
	SetupGlobal(NewWithLevel(mainLoggerName, zap.NewAtomicLevelAt(zapcore.InfoLevel)))
}

// NewNop creates a silent logger, for tests that don't care about log output.
func NewNop() Log {
	return NewFromLog(zap.NewNop())
}

// NewWithLevel creates a console logger with a fixed level and optional
// zapcore hooks (used by tests to observe emitted entries).
func NewWithLevel(module string, level zap.AtomicLevel, hooks ...func(zapcore.Entry) error) Log {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(defaultEncoder), zapcore.AddSync(logwriter), level)
	l := zap.New(zapcore.RegisterHooks(core, hooks...)).Named(module)
	lg := NewFromLog(l)
	lg.lvl = &level
	return lg
}

// NewFromLog wraps an existing zap logger.
func NewFromLog(l *zap.Logger) Log {
	return Log{logger: l, sugar: l.Sugar()}
}

// Info logs a formatted message at info level on the global logger.
func Info(msg string, args ...any) { GetLogger().Info(msg, args...) }

// Debug logs a formatted message at debug level on the global logger.
func Debug(msg string, args ...any) { GetLogger().Debug(msg, args...) }

// Warning logs a formatted message at warning level on the global logger.
func Warning(msg string, args ...any) { GetLogger().Warning(msg, args...) }

// With returns a FieldLogger for the global logger.
func With() FieldLogger { return GetLogger().With() }

// Panic logs the message and then panics.
func Panic(msg string, args ...any) { GetLogger().Panic(msg, args...) }
