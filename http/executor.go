package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/gameup-io/gameup-go/http/internal/tracking"
	"github.com/gameup-io/gameup-go/logger"
	"github.com/gameup-io/gameup-go/trace"
)

const (
	// DefaultTimeout is the default per-attempt timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRetryMinDelay and DefaultRetryMaxDelay bound the random wait
	// before each retry.
	DefaultRetryMinDelay = 100 * time.Millisecond
	DefaultRetryMaxDelay = 500 * time.Millisecond
)

// Client executes GameUp requests.
type Client interface {
	// Execute runs req in the background and delivers exactly one Result on
	// the returned channel, which is then closed.
	Execute(ctx context.Context, req *Request) <-chan Result
	// Do runs req and returns the success payload or a ClientError.
	Do(ctx context.Context, req *Request) (string, error)
}

// Result is the single outcome of a call. Exactly one of Payload and Err is
// meaningful: Err is nil on success, Payload may be empty.
type Result struct {
	Payload string
	Err     error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Config holds the executor configuration
type Config struct {
	Timeout             time.Duration
	CompressRequests    bool
	CompressResponses   bool
	RetriesEnabled      bool
	MaxRetries          int
	RetryMinDelay       time.Duration
	RetryMaxDelay       time.Duration
	RateLimit           float64 // requests per second, 0 disables limiting
	RateBurst           int
	UserAgentRestricted bool
	LogPayloads         bool
	MaxPayloadLogBytes  int
	Transport           nethttp.RoundTripper
}

// DefaultConfig returns the configuration used by New when fields are zero.
func DefaultConfig() Config {
	return Config{
		Timeout:       DefaultTimeout,
		MaxRetries:    DefaultMaxRetries,
		RetryMinDelay: DefaultRetryMinDelay,
		RetryMaxDelay: DefaultRetryMaxDelay,
	}
}

// executor implements the Client interface
type executor struct {
	httpClient *nethttp.Client
	logger     logger.Logger
	config     Config
	limiter    *rate.Limiter
	userAgent  string
	callCount  int64
}

// New creates an executor from cfg.
func New(log logger.Logger, cfg Config) Client {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = defaultTransport()
	}

	return &executor{
		httpClient: &nethttp.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger:    log,
		config:    cfg,
		limiter:   limiter,
		userAgent: UserAgent(),
	}
}

// defaultTransport never negotiates gzip on its own, so Accept-Encoding is
// only sent when response compression is enabled and encoded bodies reach
// the classifier untouched.
func defaultTransport() nethttp.RoundTripper {
	base, ok := nethttp.DefaultTransport.(*nethttp.Transport)
	if !ok {
		return nethttp.DefaultTransport
	}
	transport := base.Clone()
	transport.DisableCompression = true
	return transport
}

// Builder provides a fluent interface for configuring the executor
type Builder struct {
	config Config
	logger logger.Logger
}

// NewBuilder creates a new executor builder
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{config: DefaultConfig(), logger: log}
}

// WithTimeout sets the per-attempt timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithCompression toggles request and response gzip.
func (b *Builder) WithCompression(requests, responses bool) *Builder {
	b.config.CompressRequests = requests
	b.config.CompressResponses = responses
	return b
}

// WithRetries enables gateway timeout retries with the given cap.
func (b *Builder) WithRetries(maxRetries int) *Builder {
	b.config.RetriesEnabled = true
	b.config.MaxRetries = maxRetries
	return b
}

// WithRetryDelay sets the bounds of the random delay before a retry.
func (b *Builder) WithRetryDelay(minDelay, maxDelay time.Duration) *Builder {
	b.config.RetryMinDelay = minDelay
	b.config.RetryMaxDelay = maxDelay
	return b
}

// WithRateLimit caps outgoing attempts per second.
func (b *Builder) WithRateLimit(perSecond float64, burst int) *Builder {
	b.config.RateLimit = perSecond
	b.config.RateBurst = burst
	return b
}

// WithRestrictedUserAgent stops the executor from setting User-Agent.
func (b *Builder) WithRestrictedUserAgent() *Builder {
	b.config.UserAgentRestricted = true
	return b
}

// WithPayloadLogging logs header and body previews at debug level.
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	b.config.MaxPayloadLogBytes = maxBytes
	return b
}

// WithTransport sets the round tripper used for every attempt.
func (b *Builder) WithTransport(transport nethttp.RoundTripper) *Builder {
	b.config.Transport = transport
	return b
}

// Build creates the executor with the configured options
func (b *Builder) Build() Client {
	return New(b.logger, b.config)
}

func (e *executor) Execute(ctx context.Context, req *Request) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		payload, err := e.Do(ctx, req)
		results <- Result{Payload: payload, Err: err}
	}()
	return results
}

func (e *executor) Do(ctx context.Context, req *Request) (payload string, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := trace.EnsureRequestID(ctx)

	if err := validateRequest(req); err != nil {
		e.logFailure(req, err, requestID)
		return "", err
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			payload = ""
			err = NewProtocolError(fmt.Sprintf("panic while handling response: %v", r), nil)
		}
		outcome := tracking.OutcomeSuccess
		if err != nil {
			outcome = string(errorType(err))
			e.logFailure(req, err, requestID)
		}
		tracking.RecordRequest(ctx, req.Method(), outcome, time.Since(start))
	}()

	return e.runWithRetries(ctx, req, requestID)
}

// attempt performs one round trip.
func (e *executor) attempt(ctx context.Context, req *Request, requestID string) (string, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", NewTransportError(err.Error(), 0, err)
		}
	}

	p, err := prepare(req, prepareOptions{
		userAgent:         e.userAgent,
		restrictUserAgent: e.config.UserAgentRestricted,
		compressRequests:  e.config.CompressRequests,
		compressResponses: e.config.CompressResponses,
		requestID:         requestID,
	})
	if err != nil {
		return "", err
	}

	var bodyReader io.Reader = nethttp.NoBody
	if len(p.body) > 0 {
		bodyReader = bytes.NewReader(p.body)
	}
	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method(), p.url, bodyReader)
	if err != nil {
		return "", NewValidationError(fmt.Sprintf("failed to create request: %v", err), "request")
	}
	for _, h := range p.headers {
		httpReq.Header.Set(h.Name, h.Value)
	}

	e.logRequest(httpReq, p.body, requestID, req.Retries()+1)

	start := time.Now()
	callCount := atomic.AddInt64(&e.callCount, 1)
	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return "", transportFailure(ctx, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", transportFailure(ctx, err)
	}
	e.logResponse(httpResp.StatusCode, httpResp.Header, body, time.Since(start), callCount, requestID)

	if !IsSuccessStatus(httpResp.StatusCode) {
		return "", NewTransportError(statusText(httpResp.StatusCode), httpResp.StatusCode, nil)
	}
	if len(body) == 0 {
		return "", nil
	}
	return classify(body, httpResp.Header, e.config.CompressResponses)
}

// transportFailure maps a round trip error. A client-side timeout is reported
// as a gateway timeout so it is retried; caller cancellation never is.
func transportFailure(ctx context.Context, err error) ClientError {
	if ctx.Err() == nil && isTimeout(err) {
		return NewTransportError(fmt.Sprintf("%s: %v", GatewayTimeoutMarker, err), 0, err)
	}
	return NewTransportError(err.Error(), 0, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusText renders a status as "504 GATEWAY_TIMEOUT".
func statusText(code int) string {
	text := nethttp.StatusText(code)
	if text == "" {
		text = "unknown"
	}
	return fmt.Sprintf("%d %s", code, strings.ToUpper(strings.ReplaceAll(text, " ", "_")))
}

func errorType(err error) ErrorType {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type()
	}
	return TransportError
}
