package config

import (
	gameuphttp "github.com/gameup-io/gameup-go/http"
	"github.com/gameup-io/gameup-go/logger"
	"github.com/gameup-io/gameup-go/observability"
)

// HTTPConfig converts the client and log sections into executor settings.
func (c *Config) HTTPConfig() gameuphttp.Config {
	return gameuphttp.Config{
		Timeout:             c.Client.Timeout,
		CompressRequests:    c.Client.Compression.Request,
		CompressResponses:   c.Client.Compression.Response,
		RetriesEnabled:      c.Client.Retry.Enabled,
		MaxRetries:          c.Client.Retry.Max,
		RetryMinDelay:       c.Client.Retry.MinDelay,
		RetryMaxDelay:       c.Client.Retry.MaxDelay,
		RateLimit:           c.Client.RateLimit,
		RateBurst:           c.Client.Burst,
		UserAgentRestricted: c.Client.RestrictedAgent,
		LogPayloads:         c.Log.Payloads,
		MaxPayloadLogBytes:  c.Log.MaxPayloadBytes,
	}
}

// NewLogger builds the zerolog-backed logger described by the log section.
func (c *Config) NewLogger() logger.Logger {
	return logger.New(c.Log.Level, c.Log.Pretty)
}

// ObservabilityConfig converts the metrics section. The SDK version is
// reported as the service version.
func (c *Config) ObservabilityConfig() observability.Config {
	return observability.Config{
		Enabled:        c.Metrics.Enabled,
		ServiceName:    c.Metrics.Service,
		ServiceVersion: gameuphttp.Version,
		Environment:    c.Metrics.Environment,
		Endpoint:       c.Metrics.Endpoint,
		Protocol:       c.Metrics.Protocol,
		Insecure:       c.Metrics.Insecure,
		Interval:       c.Metrics.Interval,
	}
}
