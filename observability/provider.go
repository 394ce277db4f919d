package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"google.golang.org/grpc/credentials/insecure"
)

// Provider owns the meter provider the client instruments report to.
type Provider interface {
	// MeterProvider returns the configured meter provider, or a no-op one when disabled.
	MeterProvider() metric.MeterProvider

	// ForceFlush exports pending data immediately.
	ForceFlush(ctx context.Context) error

	// Shutdown flushes and releases the exporter. Call it once on exit.
	Shutdown(ctx context.Context) error
}

// Option customises NewProvider.
type Option func(*options)

type options struct {
	reader sdkmetric.Reader
	writer io.Writer
	global bool
}

// WithReader replaces the exporter-backed periodic reader, e.g. with a ManualReader in tests.
func WithReader(r sdkmetric.Reader) Option {
	return func(o *options) { o.reader = r }
}

// WithWriter redirects the stdout exporter.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithoutGlobal keeps the provider out of otel.SetMeterProvider.
func WithoutGlobal() Option {
	return func(o *options) { o.global = false }
}

type provider struct {
	meterProvider *sdkmetric.MeterProvider
	mu            sync.Mutex
}

// NewProvider builds a meter provider from cfg and, unless WithoutGlobal is
// given, installs it globally so the HTTP executor's instruments export
// through it. A disabled config yields a no-op provider.
func NewProvider(cfg Config, opts ...Option) (Provider, error) {
	o := options{global: true}
	for _, opt := range opts {
		opt(&o)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	if !cfg.Enabled {
		return &provider{}, nil
	}

	res, err := createResource(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	reader := o.reader
	if reader == nil {
		exporter, err := createMetricExporter(&cfg, o.writer)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(cfg.Interval),
			sdkmetric.WithTimeout(cfg.ExportTimeout),
		)
	}

	p := &provider{
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		),
	}
	if o.global {
		otel.SetMeterProvider(p.meterProvider)
	}
	return p, nil
}

func createResource(cfg *Config) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(cfg.ServiceVersion)))
	}
	if cfg.Environment != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironmentName(cfg.Environment)))
	}

	custom, err := resource.New(context.Background(), attrs...)
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), custom)
}

func createMetricExporter(cfg *Config, w io.Writer) (sdkmetric.Exporter, error) {
	if cfg.Endpoint == EndpointStdout {
		opts := []stdoutmetric.Option{stdoutmetric.WithPrettyPrint()}
		if w != nil {
			opts = append(opts, stdoutmetric.WithWriter(w))
		}
		return stdoutmetric.New(opts...)
	}

	switch cfg.Protocol {
	case ProtocolHTTP:
		return createOTLPHTTPExporter(cfg)
	case ProtocolGRPC:
		return createOTLPGRPCExporter(cfg)
	default:
		return nil, fmt.Errorf("metrics protocol '%s': %w", cfg.Protocol, ErrInvalidProtocol)
	}
}

func createOTLPHTTPExporter(cfg *Config) (sdkmetric.Exporter, error) {
	var opts []otlpmetrichttp.Option
	if strings.Contains(cfg.Endpoint, "://") {
		opts = append(opts, otlpmetrichttp.WithEndpointURL(cfg.Endpoint))
	} else {
		opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(cfg.Headers))
	}
	return otlpmetrichttp.New(context.Background(), opts...)
}

func createOTLPGRPCExporter(cfg *Config) (sdkmetric.Exporter, error) {
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.Headers))
	}
	return otlpmetricgrpc.New(context.Background(), opts...)
}

func (p *provider) MeterProvider() metric.MeterProvider {
	if p.meterProvider == nil {
		return metricnoop.NewMeterProvider()
	}
	return p.meterProvider
}

func (p *provider) ForceFlush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("failed to flush meter provider: %w", err)
	}
	return nil
}

func (p *provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider == nil {
		return nil
	}
	err := p.meterProvider.Shutdown(ctx)
	if err != nil && !errors.Is(err, sdkmetric.ErrReaderShutdown) {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
