// Package logger provides named zap loggers for the MAC components.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.Mutex
	base *zap.Logger
)

// Init configures the shared logger at the given level ("DEBUG", "INFO",
// "WARN", "ERROR"). Components that ask for a logger before Init get an
// info-level one.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(level)
}

// For returns a named sugared logger for the given component.
func For(component string) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		base = newLogger("INFO")
	}
	return base.Named(component).Sugar()
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil {
		lvl = parsed
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), lvl)
	return zap.New(core)
}
