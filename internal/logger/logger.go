// Package logger holds the process-wide structured logger. It is a no-op
// until Init is called, so library code can log unconditionally.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Options configures Init.
type Options struct {
	Verbose     bool // debug level instead of warn
	Development bool // console encoder instead of JSON
}

// Init builds a zap logger writing to stderr and installs it globally.
func Init(opts Options) error {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Set(l)
	return nil
}

// Set installs l as the global logger. Useful for tests.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

// L returns the global logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

// Guard runs fn and recovers a panic raised by it, logging the failure under
// op. It returns false when fn panicked, so callers can skip the item.
func Guard(op string, fn func(), keysAndValues ...interface{}) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			L().Warnw("skipped item after panic", append([]interface{}{"op", op, "panic", r}, keysAndValues...)...)
			ok = false
		}
	}()
	fn()
	return true
}
