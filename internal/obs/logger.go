// Package obs provides the process-wide structured logger shared by wire,
// schema, version and abi. It defaults to a no-op logger so this module
// stays silent unless a caller opts in.
package obs

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	mu         sync.RWMutex
)

// Logger returns the shared logger instance, initializing it to a no-op
// logger on first use.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		mu.Lock()
		if logger == nil {
			logger = zap.NewNop()
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger installs a caller-supplied logger, e.g. to observe schema
// negotiation, version downgrades, and ABI dispatch failures.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
