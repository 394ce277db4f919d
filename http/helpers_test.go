package http

import (
	"context"
	"maps"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gameup-io/gameup-go/logger"
)

// fakeLogEvent implements logger.LogEvent for testing
type fakeLogEvent struct {
	logger *fakeLogger
	level  string
	fields map[string]any
}

func (e *fakeLogEvent) Msg(msg string) {
	e.logger.mu.Lock()
	defer e.logger.mu.Unlock()
	e.logger.events = append(e.logger.events, loggedEvent{
		level:   e.level,
		fields:  maps.Clone(e.fields),
		message: msg,
	})
}

func (e *fakeLogEvent) Msgf(format string, _ ...any) {
	e.Msg(format)
}

func (e *fakeLogEvent) Err(err error) logger.LogEvent {
	e.fields["error"] = err
	return e
}

func (e *fakeLogEvent) Str(key, value string) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Int(key string, value int) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Int64(key string, value int64) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Dur(key string, d time.Duration) logger.LogEvent {
	e.fields[key] = d
	return e
}

func (e *fakeLogEvent) Interface(key string, i any) logger.LogEvent {
	e.fields[key] = i
	return e
}

func (e *fakeLogEvent) Bytes(key string, val []byte) logger.LogEvent {
	e.fields[key] = val
	return e
}

// fakeLogger implements logger.Logger for testing
type fakeLogger struct {
	mu     sync.Mutex
	events []loggedEvent
}

type loggedEvent struct {
	level   string
	fields  map[string]any
	message string
}

func (l *fakeLogger) newEvent(level string) logger.LogEvent {
	return &fakeLogEvent{logger: l, level: level, fields: make(map[string]any)}
}

func (l *fakeLogger) Info() logger.LogEvent  { return l.newEvent("info") }
func (l *fakeLogger) Error() logger.LogEvent { return l.newEvent("error") }
func (l *fakeLogger) Debug() logger.LogEvent { return l.newEvent("debug") }
func (l *fakeLogger) Warn() logger.LogEvent  { return l.newEvent("warn") }

func (l *fakeLogger) WithContext(_ any) logger.Logger { return l }

func (l *fakeLogger) WithFields(_ map[string]any) logger.Logger { return l }

func (l *fakeLogger) eventsByLevel(level string) []loggedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var events []loggedEvent
	for _, event := range l.events {
		if event.level == level {
			events = append(events, event)
		}
	}
	return events
}

func newIPv4TestServer(t *testing.T, handler nethttp.Handler) *httptest.Server {
	t.Helper()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
		return &httptest.Server{}
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &nethttp.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

type roundTripperFunc func(*nethttp.Request) (*nethttp.Response, error)

func (f roundTripperFunc) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	return f(req)
}
