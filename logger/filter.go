package logger

import (
	"net/url"
	"strings"
)

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// maxFilterDepth bounds recursion into nested maps.
const maxFilterDepth = 8

// FilterConfig lists field names whose values never reach the log output.
type FilterConfig struct {
	// SensitiveFields are matched case-insensitively as substrings of the field name.
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig masks credentials the client handles: the basic auth
// header, API keys, session tokens and passwords sent to the login endpoints.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"authorization", "auth",
			"apikey", "api_key",
			"token", "password", "secret",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks sensitive fields before they are written.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter; nil config means DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks value when key is sensitive. URLs carrying user info are
// rewritten with the password masked.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	return f.maskURL(value)
}

// FilterValue masks value when key is sensitive and descends into string-keyed maps.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filterValue(key, value, maxFilterDepth)
}

// FilterFields applies FilterValue to every entry of fields.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		filtered[k] = f.FilterValue(k, v)
	}
	return filtered
}

func (f *SensitiveDataFilter) filterValue(key string, value any, depth int) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	if depth <= 0 {
		return value
	}

	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = f.filterValue(k, inner, depth-1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, inner := range v {
			if f.isSensitiveField(k) {
				out[k] = f.config.MaskValue
				continue
			}
			out[k] = inner
		}
		return out
	case map[string][]string:
		out := make(map[string][]string, len(v))
		for k, inner := range v {
			if f.isSensitiveField(k) {
				out[k] = []string{f.config.MaskValue}
				continue
			}
			out[k] = inner
		}
		return out
	default:
		return value
	}
}

func (f *SensitiveDataFilter) isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range f.config.SensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func (f *SensitiveDataFilter) maskURL(value string) string {
	if !strings.Contains(value, "@") || !strings.Contains(value, "://") {
		return value
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.User == nil {
		return value
	}
	if _, hasPassword := parsed.User.Password(); !hasPassword {
		return value
	}
	return f.buildMaskedURL(parsed, parsed.User.Username())
}

// buildMaskedURL writes the URL by hand so the mask is not percent-encoded.
func (f *SensitiveDataFilter) buildMaskedURL(parsed *url.URL, username string) string {
	var b strings.Builder
	b.WriteString(parsed.Scheme)
	b.WriteString("://")
	b.WriteString(username)
	b.WriteByte(':')
	b.WriteString(f.config.MaskValue)
	b.WriteByte('@')
	b.WriteString(parsed.Host)
	b.WriteString(parsed.EscapedPath())
	if parsed.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(parsed.RawQuery)
	}
	if parsed.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(parsed.EscapedFragment())
	}
	return b.String()
}
