package logger

import "go.uber.org/zap"

// NewNopLogger returns a logger that discards everything. Intended for
// tests and tools that do not care about log output.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{
		logger: zap.NewNop(),
	}
}
