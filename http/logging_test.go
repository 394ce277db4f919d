package http

import (
	"context"
	nethttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRequestMessage  = "GameUp request"
	testResponseMessage = "GameUp response"
)

func TestLogRequest(t *testing.T) {
	t.Run("basic request logging", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		e := &executor{logger: fakeLog, config: Config{}}

		req, err := nethttp.NewRequestWithContext(context.Background(), "POST", "https://api.gameup.io/v0/gamer?_status=200&_method=POST", nethttp.NoBody)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Basic abc")
		req.Header.Set("Content-Type", "application/json")

		body := []byte(`{"score":10}`)
		e.logRequest(req, body, "req-123", 1)

		infoEvents := fakeLog.eventsByLevel("info")
		require.Len(t, infoEvents, 1)

		event := infoEvents[0]
		assert.Equal(t, testRequestMessage, event.message)
		assert.Equal(t, "outbound", event.fields["direction"])
		assert.Equal(t, "POST", event.fields["method"])
		assert.Equal(t, "req-123", event.fields["request_id"])
		assert.Equal(t, 1, event.fields["attempt"])
		assert.Equal(t, 2, event.fields["header_count"])
		assert.Equal(t, len(body), event.fields["body_size"])

		assert.Empty(t, fakeLog.eventsByLevel("debug"))
	})

	t.Run("request with empty body", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		e := &executor{logger: fakeLog}

		req, err := nethttp.NewRequestWithContext(context.Background(), "GET", "https://api.gameup.io/v0/", nethttp.NoBody)
		require.NoError(t, err)

		e.logRequest(req, nil, "req-1", 3)

		event := fakeLog.eventsByLevel("info")[0]
		assert.NotContains(t, event.fields, "body_size")
		assert.NotContains(t, event.fields, "header_count")
		assert.Equal(t, 3, event.fields["attempt"])
	})

	t.Run("payload logging with truncation", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		e := &executor{logger: fakeLog, config: Config{LogPayloads: true, MaxPayloadLogBytes: 8}}

		req, err := nethttp.NewRequestWithContext(context.Background(), "PUT", "https://api.gameup.io/v0/", nethttp.NoBody)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Basic abc")

		e.logRequest(req, []byte(`{"data":"0123456789"}`), "req-2", 1)

		debugEvents := fakeLog.eventsByLevel("debug")
		require.Len(t, debugEvents, 1)
		assert.Equal(t, `{"data":...(truncated)`, debugEvents[0].fields["body_preview"])
		headers, ok := debugEvents[0].fields["headers"].(map[string][]string)
		require.True(t, ok)
		assert.Equal(t, []string{"Basic abc"}, headers["Authorization"])
	})
}

func TestLogResponse(t *testing.T) {
	t.Run("basic response logging", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		e := &executor{logger: fakeLog}

		e.logResponse(200, nethttp.Header{}, []byte(`{"ok":true}`), 150*time.Millisecond, 7, "req-9")

		infoEvents := fakeLog.eventsByLevel("info")
		require.Len(t, infoEvents, 1)
		event := infoEvents[0]
		assert.Equal(t, testResponseMessage, event.message)
		assert.Equal(t, "inbound", event.fields["direction"])
		assert.Equal(t, 200, event.fields["status"])
		assert.Equal(t, 150*time.Millisecond, event.fields["elapsed"])
		assert.Equal(t, int64(7), event.fields["call_count"])
		assert.Equal(t, 11, event.fields["body_size"])
	})

	t.Run("default preview limit", func(t *testing.T) {
		fakeLog := &fakeLogger{}
		e := &executor{logger: fakeLog, config: Config{LogPayloads: true}}

		body := []byte(strings.Repeat("a", 2000))
		e.logResponse(200, nethttp.Header{}, body, time.Millisecond, 1, "req-3")

		preview, ok := fakeLog.eventsByLevel("debug")[0].fields["body_preview"].(string)
		require.True(t, ok)
		assert.True(t, strings.HasSuffix(preview, "...(truncated)"))
		assert.Len(t, preview, defaultMaxPayloadLogBytes+len("...(truncated)"))
	})
}

func TestRetryAndFailureLogging(t *testing.T) {
	server := newIPv4TestServer(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusGatewayTimeout)
	}))

	fakeLog := &fakeLogger{}
	client := NewBuilder(fakeLog).
		WithRetries(DefaultMaxRetries).
		WithRetryDelay(time.Millisecond, 2*time.Millisecond).
		Build()

	_, err := client.Do(context.Background(), NewRequest("GET", server.URL, testAPIKey, testToken))
	require.Error(t, err)

	warnEvents := fakeLog.eventsByLevel("warn")
	require.Len(t, warnEvents, 2)
	assert.Equal(t, 1, warnEvents[0].fields["retry"])
	assert.Equal(t, 2, warnEvents[1].fields["retry"])

	errorEvents := fakeLog.eventsByLevel("error")
	require.Len(t, errorEvents, 1)
	assert.Equal(t, "GameUp request failed", errorEvents[0].message)
	assert.Equal(t, 500, errorEvents[0].fields["status"])
	assert.Equal(t, 2, errorEvents[0].fields["retries"])

	var attempts []any
	for _, ev := range fakeLog.eventsByLevel("info") {
		if ev.message == testRequestMessage {
			attempts = append(attempts, ev.fields["attempt"])
		}
	}
	assert.Equal(t, []any{1, 2, 3}, attempts)
}
