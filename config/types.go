package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the SDK configuration. The embedded koanf instance keeps the
// merged sources for keys the struct does not model.
type Config struct {
	Client  ClientConfig  `koanf:"client" json:"client" yaml:"client" mapstructure:"client"`
	Log     LogConfig     `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `koanf:"metrics" json:"metrics" yaml:"metrics" mapstructure:"metrics"`

	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// ClientConfig holds the endpoints, credentials and request behaviour.
type ClientConfig struct {
	APIKey          string            `koanf:"apikey" json:"apikey" yaml:"apikey" mapstructure:"apikey" validate:"required"`
	Scheme          string            `koanf:"scheme" json:"scheme" yaml:"scheme" mapstructure:"scheme" validate:"oneof=http https"`
	Port            int               `koanf:"port" json:"port" yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	APIServer       string            `koanf:"apiserver" json:"apiserver" yaml:"apiserver" mapstructure:"apiserver" validate:"required,hostname_rfc1123"`
	AccountsServer  string            `koanf:"accountsserver" json:"accountsserver" yaml:"accountsserver" mapstructure:"accountsserver" validate:"required,hostname_rfc1123"`
	Timeout         time.Duration     `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	RateLimit       float64           `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit" mapstructure:"ratelimit" validate:"gte=0"`
	Burst           int               `koanf:"burst" json:"burst" yaml:"burst" mapstructure:"burst" validate:"gte=0"`
	RestrictedAgent bool              `koanf:"restrictedagent" json:"restrictedagent" yaml:"restrictedagent" mapstructure:"restrictedagent"`
	Compression     CompressionConfig `koanf:"compression" json:"compression" yaml:"compression" mapstructure:"compression"`
	Retry           RetryConfig       `koanf:"retry" json:"retry" yaml:"retry" mapstructure:"retry"`
}

// CompressionConfig toggles gzip per direction. Both are off by default.
type CompressionConfig struct {
	Request  bool `koanf:"request" json:"request" yaml:"request" mapstructure:"request"`
	Response bool `koanf:"response" json:"response" yaml:"response" mapstructure:"response"`
}

// RetryConfig controls gateway timeout retries.
type RetryConfig struct {
	Enabled  bool          `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Max      int           `koanf:"max" json:"max" yaml:"max" mapstructure:"max" validate:"gte=0,lte=10"`
	MinDelay time.Duration `koanf:"mindelay" json:"mindelay" yaml:"mindelay" mapstructure:"mindelay" validate:"gte=0"`
	MaxDelay time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" mapstructure:"maxdelay" validate:"gte=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level" json:"level" yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Pretty          bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
	Payloads        bool   `koanf:"payloads" json:"payloads" yaml:"payloads" mapstructure:"payloads"`
	MaxPayloadBytes int    `koanf:"maxpayloadbytes" json:"maxpayloadbytes" yaml:"maxpayloadbytes" mapstructure:"maxpayloadbytes" validate:"gte=0"`
}

// MetricsConfig selects the OpenTelemetry exporter for client metrics.
type MetricsConfig struct {
	Enabled     bool          `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Service     string        `koanf:"service" json:"service" yaml:"service" mapstructure:"service"`
	Environment string        `koanf:"environment" json:"environment" yaml:"environment" mapstructure:"environment"`
	Endpoint    string        `koanf:"endpoint" json:"endpoint" yaml:"endpoint" mapstructure:"endpoint" validate:"required"`
	Protocol    string        `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol" validate:"oneof=http grpc"`
	Insecure    bool          `koanf:"insecure" json:"insecure" yaml:"insecure" mapstructure:"insecure"`
	Interval    time.Duration `koanf:"interval" json:"interval" yaml:"interval" mapstructure:"interval" validate:"gt=0"`
}
