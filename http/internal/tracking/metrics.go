// Package tracking records OpenTelemetry metrics for outbound GameUp calls.
// Instruments come from the global meter provider and are created lazily on
// first use; a process without a configured provider records into no-ops.
package tracking

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	clientMeterName = "gameup-go/http"

	metricRequests        = "gameup.client.requests"
	metricRetries         = "gameup.client.retries"
	metricRequestDuration = "gameup.client.request.duration"

	attrHTTPRequestMethod = "http.request.method"
	attrOutcome           = "outcome"

	// OutcomeSuccess labels calls that produced a payload.
	OutcomeSuccess = "success"
)

var durationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

var (
	clientMeter   metric.Meter
	meterOnce     sync.Once
	meterInitMu   sync.Mutex
	metricsInited bool

	requestCounter    metric.Int64Counter
	retryCounter      metric.Int64Counter
	durationHistogram metric.Float64Histogram
)

func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize GameUp client metric %s: %v\n", metricName, err)
	}
}

func initClientMeter() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	if clientMeter != nil {
		return
	}

	clientMeter = otel.Meter(clientMeterName)

	var err error
	requestCounter, err = clientMeter.Int64Counter(
		metricRequests,
		metric.WithDescription("Completed GameUp calls by outcome"),
		metric.WithUnit("{request}"),
	)
	logMetricError(metricRequests, err)

	retryCounter, err = clientMeter.Int64Counter(
		metricRetries,
		metric.WithDescription("Retries performed after gateway timeouts"),
		metric.WithUnit("{retry}"),
	)
	logMetricError(metricRetries, err)

	durationHistogram, err = clientMeter.Float64Histogram(
		metricRequestDuration,
		metric.WithDescription("Duration of GameUp calls including retries"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	logMetricError(metricRequestDuration, err)

	metricsInited = true
}

func ensureInitialized() {
	meterOnce.Do(initClientMeter)
}

// RecordRequest records one finished call. outcome is OutcomeSuccess or the
// error category.
func RecordRequest(ctx context.Context, method, outcome string, duration time.Duration) {
	ensureInitialized()

	attrs := metric.WithAttributes(
		attribute.String(attrHTTPRequestMethod, method),
		attribute.String(attrOutcome, outcome),
	)
	if requestCounter != nil {
		requestCounter.Add(ctx, 1, attrs)
	}
	if durationHistogram != nil {
		durationHistogram.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordRetry records a retry scheduled for method.
func RecordRetry(ctx context.Context, method string) {
	ensureInitialized()

	if retryCounter != nil {
		retryCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(attrHTTPRequestMethod, method)))
	}
}

// IsInitialized returns true if the client metrics have been initialized.
func IsInitialized() bool {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()
	return metricsInited
}

// ResetForTesting resets the metric state for testing purposes.
// This should only be called in tests.
func ResetForTesting() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	clientMeter = nil
	requestCounter = nil
	retryCounter = nil
	durationHistogram = nil
	metricsInited = false
	meterOnce = sync.Once{}
}
