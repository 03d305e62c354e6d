package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// scopeName is the instrumentation scope of the meter.
const scopeName = "github.com/cipherset/cipherset-go/monitoring"

// Meter is a Client backed by OpenTelemetry metrics. It records three
// counters: operations served, bytes processed, and failed operations, each
// attributed with the primitive kind, the API function and the keyset
// annotations.
type Meter struct {
	operations metric.Int64Counter
	bytes      metric.Int64Counter
	failures   metric.Int64Counter
}

// MeterOption configures a Meter.
type MeterOption func(*meterConfig)

type meterConfig struct {
	provider metric.MeterProvider
}

// WithMeterProvider sets the provider the counters are created from. The
// global provider is used by default.
func WithMeterProvider(provider metric.MeterProvider) MeterOption {
	return func(c *meterConfig) {
		c.provider = provider
	}
}

// NewMeter creates a Meter.
func NewMeter(opts ...MeterOption) (*Meter, error) {
	cfg := &meterConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetMeterProvider()
	}
	meter := cfg.provider.Meter(scopeName)

	operations, err := meter.Int64Counter("cipherset.operations",
		metric.WithDescription("Successful cryptographic operations."))
	if err != nil {
		return nil, fmt.Errorf("monitoring: create operations counter: %w", err)
	}
	bytes, err := meter.Int64Counter("cipherset.bytes",
		metric.WithUnit("By"),
		metric.WithDescription("Input bytes of successful cryptographic operations."))
	if err != nil {
		return nil, fmt.Errorf("monitoring: create bytes counter: %w", err)
	}
	failures, err := meter.Int64Counter("cipherset.failures",
		metric.WithDescription("Failed cryptographic operations."))
	if err != nil {
		return nil, fmt.Errorf("monitoring: create failures counter: %w", err)
	}
	return &Meter{operations: operations, bytes: bytes, failures: failures}, nil
}

// NewLogger returns a logger attributed to the given context.
func (m *Meter) NewLogger(logCtx *Context) (Logger, error) {
	if logCtx == nil || logCtx.KeysetInfo == nil {
		return nil, fmt.Errorf("monitoring: nil logging context")
	}
	attrs := []attribute.KeyValue{
		attribute.String("primitive", logCtx.Primitive),
		attribute.String("api", logCtx.APIFunction),
	}
	for k, v := range logCtx.KeysetInfo.Annotations {
		attrs = append(attrs, attribute.String("annotation."+k, v))
	}
	return &meterLogger{meter: m, base: attrs}, nil
}

type meterLogger struct {
	meter *Meter
	base  []attribute.KeyValue
}

func (l *meterLogger) Log(keyID uint32, numBytes int) {
	ctx := context.Background()
	attrs := metric.WithAttributes(append(l.base[:len(l.base):len(l.base)],
		attribute.Int64("key.id", int64(keyID)))...)
	l.meter.operations.Add(ctx, 1, attrs)
	l.meter.bytes.Add(ctx, int64(numBytes), attrs)
}

func (l *meterLogger) LogFailure() {
	l.meter.failures.Add(context.Background(), 1, metric.WithAttributes(l.base...))
}

// Compile-time interface check.
var _ Client = (*Meter)(nil)
