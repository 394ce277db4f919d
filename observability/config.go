// Package observability exports the client's OpenTelemetry metrics to stdout
// or an OTLP collector. Nothing is exported unless a provider is built and
// enabled; until then the instruments report to the global no-op provider.
package observability

import (
	"fmt"
	"strings"
	"time"
)

const (
	// EndpointStdout writes metrics as JSON to stdout (or the writer set with WithWriter).
	EndpointStdout = "stdout"

	// ProtocolHTTP specifies OTLP over HTTP/protobuf.
	ProtocolHTTP = "http"

	// ProtocolGRPC specifies OTLP over gRPC.
	ProtocolGRPC = "grpc"

	// DefaultServiceName identifies the SDK in exported resources.
	DefaultServiceName = "gameup-go"

	// DefaultInterval is how often the periodic reader exports.
	DefaultInterval = 10 * time.Second
)

// Config selects where metrics go.
type Config struct {
	// Enabled turns on the SDK meter provider. When false NewProvider returns a no-op provider.
	Enabled bool

	// ServiceName and ServiceVersion populate the service.* resource attributes.
	ServiceName    string
	ServiceVersion string

	// Environment populates deployment.environment.name.
	Environment string

	// Endpoint is "stdout" or a collector address. gRPC takes host:port;
	// HTTP accepts host:port or a full URL.
	Endpoint string

	// Protocol is "http" or "grpc". Ignored for stdout.
	Protocol string

	// Insecure disables TLS towards the collector.
	Insecure bool

	// Headers are sent with every OTLP export, e.g. for authentication.
	Headers map[string]string

	// Interval between exports.
	Interval time.Duration

	// ExportTimeout bounds a single export.
	ExportTimeout time.Duration
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.Endpoint == "" {
		c.Endpoint = EndpointStdout
	}
	if c.Protocol == "" {
		c.Protocol = ProtocolHTTP
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ExportTimeout <= 0 {
		// stdout never blocks for long; collectors get more room
		if c.Endpoint == EndpointStdout {
			c.ExportTimeout = 10 * time.Second
		} else {
			c.ExportTimeout = 30 * time.Second
		}
	}
}

// Validate checks protocol and endpoint shape. It is a no-op when disabled.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == EndpointStdout {
		return nil
	}

	switch c.Protocol {
	case ProtocolHTTP:
		return nil
	case ProtocolGRPC:
		if strings.Contains(c.Endpoint, "://") {
			return fmt.Errorf("grpc endpoint %q must be host:port: %w", c.Endpoint, ErrInvalidEndpointFormat)
		}
		return nil
	default:
		return fmt.Errorf("protocol %q: %w", c.Protocol, ErrInvalidProtocol)
	}
}
