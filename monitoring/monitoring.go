// Package monitoring defines the observability hook of the library.
//
// Every wrapped primitive logs one event per operation: a success event
// carrying the key ID that served the operation and the input size, or a
// single failure event for the whole operation. Failure events deliberately
// carry no detail about which keys were tried — the same information
// discipline the wrapped primitives apply to their returned errors.
//
// The default logger is a no-op. Events are only produced when a keyset
// handle carries annotations and a Client is configured on the registry;
// [Meter] is a Client backed by OpenTelemetry metrics.
package monitoring

// Logger receives the per-operation events of one wrapped primitive.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Log records a successful operation served by the key with the given
	// ID over numBytes input bytes.
	Log(keyID uint32, numBytes int)
	// LogFailure records a failed operation. Exactly one failure event is
	// emitted per failed operation regardless of how many keys were tried.
	LogFailure()
}

// KeyInfo describes one key of a monitored keyset.
type KeyInfo struct {
	ID         uint32
	Status     string
	TypeURL    string
	PrefixType string
}

// KeysetInfo describes the keyset behind a monitored primitive.
type KeysetInfo struct {
	PrimaryKeyID uint32
	Keys         []KeyInfo
	Annotations  map[string]string
}

// Context identifies what a Logger is logging for: one primitive kind, one
// API function, one keyset.
type Context struct {
	// Primitive names the primitive kind, e.g. "aead" or "mac".
	Primitive string
	// APIFunction names the operation, e.g. "encrypt" or "verify".
	APIFunction string
	// KeysetInfo describes the keyset, including its annotations.
	KeysetInfo *KeysetInfo
}

// Client creates loggers. One Client is configured per registry and asked
// for a logger per (primitive, operation) pair at wrap time.
type Client interface {
	NewLogger(ctx *Context) (Logger, error)
}

type nopLogger struct{}

func (nopLogger) Log(uint32, int) {}
func (nopLogger) LogFailure()     {}

// NopLogger returns a Logger that discards all events.
func NopLogger() Logger {
	return nopLogger{}
}

// NewLogger returns a logger from the client, or a no-op logger when no
// client is configured or the keyset carries no annotations.
func NewLogger(client Client, ctx *Context) (Logger, error) {
	if client == nil || ctx == nil || ctx.KeysetInfo == nil || len(ctx.KeysetInfo.Annotations) == 0 {
		return NopLogger(), nil
	}
	return client.NewLogger(ctx)
}
