package interfaces

// Logger is the diagnostics sink consumed by the parsers.
// Nothing a Logger does may influence a parse result.
type Logger interface {
	// Logf writes one formatted diagnostic message
	Logf(format string, args ...any)
}

// NopLogger discards every message.
type NopLogger struct{}

// Logf implements Logger.
func (NopLogger) Logf(string, ...any) {}

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
