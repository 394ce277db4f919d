// Package config loads SDK settings from defaults, an optional YAML file,
// embedded YAML and GAMEUP_ prefixed environment variables, in increasing
// priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultFile is the YAML file read by Load when present.
	DefaultFile = "gameup.yaml"

	// EnvPrefix scopes environment overrides, e.g. GAMEUP_CLIENT_APIKEY.
	EnvPrefix = "GAMEUP_"
)

// Options selects the sources used by LoadWithOptions.
type Options struct {
	// File is an optional YAML path. A missing file is skipped.
	File string
	// YAML is embedded configuration applied after File.
	YAML []byte
	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
}

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. gameup.yaml in the working directory
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadWithOptions(Options{File: DefaultFile})
}

// LoadWithOptions loads and validates configuration from opts.
func LoadWithOptions(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, NewLoadError("defaults", err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, NewLoadError(opts.File, err)
			}
		}
	}

	if len(opts.YAML) > 0 {
		if err := k.Load(rawbytes.Provider(opts.YAML), yaml.Parser()); err != nil {
			return nil, NewLoadError("embedded yaml", err)
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, NewLoadError("environment", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, NewLoadError("unmarshal", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// transformEnv converts GAMEUP_CLIENT_RETRY_MAX to client.retry.max.
func transformEnv(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"client.scheme":               "https",
		"client.port":                 443,
		"client.apiserver":            "api.gameup.io",
		"client.accountsserver":       "accounts.gameup.io",
		"client.timeout":              "30s",
		"client.ratelimit":            0,
		"client.burst":                0,
		"client.restrictedagent":      false,
		"client.compression.request":  false,
		"client.compression.response": false,
		"client.retry.enabled":        false,
		"client.retry.max":            2,
		"client.retry.mindelay":       "100ms",
		"client.retry.maxdelay":       "500ms",

		"log.level":           "info",
		"log.pretty":          false,
		"log.payloads":        false,
		"log.maxpayloadbytes": 1024,

		"metrics.enabled":  false,
		"metrics.service":  "gameup-go",
		"metrics.endpoint": "stdout",
		"metrics.protocol": "http",
		"metrics.insecure": false,
		"metrics.interval": "10s",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// String returns the raw value at a dotted key, including keys the Config
// struct does not model.
func (c *Config) String(key string) string {
	if c.k == nil {
		return ""
	}
	return c.k.String(key)
}

// Exists reports whether any source set key.
func (c *Config) Exists(key string) bool {
	return c.k != nil && c.k.Exists(key)
}

// APIBaseURL is the root of the game API, e.g. https://api.gameup.io:443.
func (c *Config) APIBaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Client.Scheme, c.Client.APIServer, c.Client.Port)
}

// AccountsBaseURL is the root of the accounts API.
func (c *Config) AccountsBaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Client.Scheme, c.Client.AccountsServer, c.Client.Port)
}
