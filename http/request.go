package http

import (
	"encoding/base64"
	nethttp "net/http"
	"strings"
)

// DefaultMaxRetries is the number of extra attempts after a transient failure.
const DefaultMaxRetries = 2

// Request describes one logical call: target, verb, credentials and body.
// A Request belongs to the call that created it and must not be executed
// concurrently; its retry counter lives across attempts.
type Request struct {
	url     string
	method  string
	auth    string
	body    []byte
	retries int
}

// NewRequest creates a request authenticated with apiKey and an optional
// session token. The method is normalized to upper case.
func NewRequest(method, url, apiKey, token string) *Request {
	return &Request{
		url:    url,
		method: strings.ToUpper(method),
		auth:   base64.StdEncoding.EncodeToString([]byte(apiKey + ":" + token)),
	}
}

// SetBody sets the raw request body.
func (r *Request) SetBody(body []byte) *Request {
	r.body = body
	return r
}

// SetBodyString sets the request body from UTF-8 text.
func (r *Request) SetBodyString(body string) *Request {
	r.body = []byte(body)
	return r
}

func (r *Request) URL() string    { return r.url }
func (r *Request) Method() string { return r.method }
func (r *Request) Body() []byte   { return r.body }

// Retries is the number of retries performed so far.
func (r *Request) Retries() int { return r.retries }

// AuthHeader is the Authorization header value.
func (r *Request) AuthHeader() string { return "Basic " + r.auth }

func (r *Request) remainingRetries(maxRetries int) int {
	if left := maxRetries - r.retries; left > 0 {
		return left
	}
	return 0
}

// markRetry advances the counter, never past maxRetries.
func (r *Request) markRetry(maxRetries int) {
	if r.retries < maxRetries {
		r.retries++
	}
}

func validateRequest(req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if req.url == "" {
		return NewValidationError("URL cannot be empty", "url")
	}
	switch req.method {
	case nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodPatch, nethttp.MethodDelete:
		return nil
	default:
		return NewValidationError("unsupported method "+req.method, "method")
	}
}
