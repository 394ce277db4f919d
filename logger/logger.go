package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	zlog   *zerolog.Logger
	filter *SensitiveDataFilter
}

var _ Logger = (*ZeroLogger)(nil)

var callerMarshalOnce sync.Once

// New creates a logger writing JSON (or console output when pretty is set) to stdout.
// Unknown levels fall back to info.
func New(level string, pretty bool) *ZeroLogger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, level, nil)
}

// NewWithWriter creates a logger writing to w. A nil filterConfig uses DefaultFilterConfig.
func NewWithWriter(w io.Writer, level string, filterConfig *FilterConfig) *ZeroLogger {
	callerMarshalOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			parent := filepath.Base(filepath.Dir(file))
			if parent != "." && parent != "" {
				return parent + "/" + filepath.Base(file) + ":" + strconv.Itoa(line)
			}
			return filepath.Base(file) + ":" + strconv.Itoa(line)
		}
	})

	l := zerolog.New(w).With().Timestamp().CallerWithSkipFrameCount(3).Logger()

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l, filter: NewSensitiveDataFilter(filterConfig)}
}

// Nop returns a logger that discards everything.
func Nop() *ZeroLogger {
	l := zerolog.Nop()
	return &ZeroLogger{zlog: &l}
}

// WithContext returns the zerolog logger stored in a context.Context, if any.
func (l *ZeroLogger) WithContext(ctx any) Logger {
	c, ok := ctx.(context.Context)
	if !ok {
		return l
	}
	zl := zerolog.Ctx(c)
	if zl == nil || zl.GetLevel() == zerolog.Disabled {
		return l
	}
	return &ZeroLogger{zlog: zl, filter: l.filter}
}

// WithFields returns a child logger carrying fields on every entry.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	if l.filter != nil {
		fields = l.filter.FilterFields(fields)
	}
	child := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &child, filter: l.filter}
}

func (l *ZeroLogger) Info() LogEvent  { return l.event(l.zlog.Info()) }
func (l *ZeroLogger) Error() LogEvent { return l.event(l.zlog.Error()) }
func (l *ZeroLogger) Debug() LogEvent { return l.event(l.zlog.Debug()) }
func (l *ZeroLogger) Warn() LogEvent  { return l.event(l.zlog.Warn()) }

func (l *ZeroLogger) event(e *zerolog.Event) LogEvent {
	return &eventAdapter{event: e, filter: l.filter}
}
