package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report koanf paths instead of Go field names
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks field constraints and cross-field rules. It returns the
// first problem found as a *ConfigError.
func Validate(cfg *Config) error {
	if err := structValidator().Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return fieldError(validationErrors[0])
		}
		return NewInvalidFieldError("config", err.Error(), nil)
	}

	if err := validateRetry(&cfg.Client.Retry); err != nil {
		return err
	}
	return validateMetrics(cfg)
}

// validateMetrics applies the exporter's endpoint rules once metrics are on.
func validateMetrics(cfg *Config) error {
	if !cfg.Metrics.Enabled {
		return nil
	}
	obsCfg := cfg.ObservabilityConfig()
	if err := obsCfg.Validate(); err != nil {
		return NewInvalidFieldError("metrics.endpoint", err.Error(), nil)
	}
	return nil
}

func validateRetry(cfg *RetryConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.MaxDelay < cfg.MinDelay {
		return NewInvalidFieldError("client.retry.maxdelay",
			fmt.Sprintf("must not be lower than client.retry.mindelay (%s)", cfg.MinDelay), nil)
	}
	return nil
}

func fieldError(fe validator.FieldError) *ConfigError {
	path := fieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(path, envVar(path), path)
	case "oneof":
		return NewInvalidFieldError(path, fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	case "min", "gte":
		return NewInvalidFieldError(path, fmt.Sprintf("must be at least %s", fe.Param()), nil)
	case "max", "lte":
		return NewInvalidFieldError(path, fmt.Sprintf("must be at most %s", fe.Param()), nil)
	case "gt":
		return NewInvalidFieldError(path, fmt.Sprintf("must be greater than %s", fe.Param()), nil)
	case "hostname_rfc1123":
		return NewInvalidFieldError(path, fmt.Sprintf("invalid host %q", fmt.Sprint(fe.Value())), nil)
	default:
		return NewInvalidFieldError(path, "failed validation", nil)
	}
}

// fieldPath turns "Config.client.retry.max" into "client.retry.max".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func envVar(path string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}
