package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func restoreGlobalMeterProvider(t *testing.T) {
	t.Helper()
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })
}

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)

	assert.NotNil(t, p.MeterProvider())
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderInvalidConfig(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Endpoint: "collector:4317", Protocol: "udp"})
	assert.ErrorIs(t, err, ErrInvalidProtocol)
}

func TestNewProviderManualReader(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	p, err := NewProvider(Config{
		Enabled:        true,
		ServiceVersion: "1.2.3",
		Environment:    "staging",
	}, WithReader(reader), WithoutGlobal())
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	counter, err := p.MeterProvider().Meter("test-meter").Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 3, metric.WithAttributes(attribute.String("outcome", "success")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	name, ok := rm.Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, DefaultServiceName, name.AsString())
	version, ok := rm.Resource.Set().Value("service.version")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", version.AsString())
	env, ok := rm.Resource.Set().Value("deployment.environment.name")
	require.True(t, ok)
	assert.Equal(t, "staging", env.AsString())

	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}

func TestNewProviderInstallsGlobal(t *testing.T) {
	restoreGlobalMeterProvider(t)

	p, err := NewProvider(Config{Enabled: true}, WithReader(sdkmetric.NewManualReader()))
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	assert.Same(t, p.MeterProvider(), otel.GetMeterProvider())
}

func TestNewProviderWithoutGlobal(t *testing.T) {
	restoreGlobalMeterProvider(t)
	before := otel.GetMeterProvider()

	p, err := NewProvider(Config{Enabled: true}, WithReader(sdkmetric.NewManualReader()), WithoutGlobal())
	require.NoError(t, err)
	defer func() { _ = p.Shutdown(context.Background()) }()

	assert.Equal(t, before, otel.GetMeterProvider())
}

func TestNewProviderStdoutExport(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(Config{Enabled: true, Interval: time.Hour}, WithWriter(&buf), WithoutGlobal())
	require.NoError(t, err)

	counter, err := p.MeterProvider().Meter("test-meter").Int64Counter("gameup.test.exported")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	require.NoError(t, p.ForceFlush(context.Background()))
	assert.Contains(t, buf.String(), "gameup.test.exported")

	require.NoError(t, Shutdown(p, time.Second))
}

func TestNewProviderOTLPExporters(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "http", cfg: Config{Enabled: true, Endpoint: "127.0.0.1:4318", Protocol: ProtocolHTTP, Insecure: true}},
		{name: "http url", cfg: Config{Enabled: true, Endpoint: "http://127.0.0.1:4318/v1/metrics", Protocol: ProtocolHTTP}},
		{
			name: "grpc",
			cfg: Config{
				Enabled:  true,
				Endpoint: "127.0.0.1:4317",
				Protocol: ProtocolGRPC,
				Insecure: true,
				Headers:  map[string]string{"x-api-key": "secret"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Interval = time.Hour
			p, err := NewProvider(tt.cfg, WithoutGlobal())
			require.NoError(t, err)
			assert.NotNil(t, p.MeterProvider())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			// no collector is listening, only teardown is exercised
			_ = p.Shutdown(ctx)
		})
	}
}

func TestShutdownNilProvider(t *testing.T) {
	assert.NoError(t, Shutdown(nil, 0))
}
