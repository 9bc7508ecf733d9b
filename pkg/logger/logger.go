// Package logger wraps zerolog with context-scoped fields. Handlers tag the
// request context once (request, session, order ids) and every later call
// that receives that context carries the same fields.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	ServiceName string
	Level       zerolog.Level
	// WarnStack attaches a stack trace to Warn as well as Error.
	WarnStack bool
	Output    io.Writer
	// Format is "json" or "console"; empty falls back to LOG_FORMAT.
	Format string
}

// Logger is safe to use as a nil pointer; it then discards everything.
type Logger struct {
	root      zerolog.Logger
	warnStack bool
}

type scopedKey struct{}

var discard = zerolog.Nop()

func New(opts Options) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return &Logger{
		root: zerolog.New(sink(opts)).
			Level(level).
			With().
			Timestamp().
			Str("service", opts.ServiceName).
			Logger(),
		warnStack: opts.WarnStack,
	}
}

func sink(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	if strings.EqualFold(format, "console") {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	return out
}

func Nop() *Logger {
	return &Logger{root: zerolog.Nop()}
}

// ParseLevel maps names such as "debug" or "WARN" to a level. Unknown or empty
// input yields info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) scoped(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if zl, ok := ctx.Value(scopedKey{}).(*zerolog.Logger); ok {
			return zl
		}
	}
	if l == nil {
		return &discard
	}
	return &l.root
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.WithFields(ctx, map[string]any{key: value})
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	zl := l.scoped(ctx).With().Fields(fields).Logger()
	return context.WithValue(ctx, scopedKey{}, &zl)
}

func (l *Logger) WithRequestID(ctx context.Context, id string) context.Context {
	return l.WithField(ctx, "request_id", id)
}

func (l *Logger) WithSessionID(ctx context.Context, id string) context.Context {
	return l.WithField(ctx, "session_id", id)
}

func (l *Logger) WithOrderID(ctx context.Context, id string) context.Context {
	return l.WithField(ctx, "order_id", id)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.scoped(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.scoped(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	ev := l.scoped(ctx).Warn()
	if l != nil && l.warnStack {
		ev = ev.Str("stack", stack())
	}
	ev.Msg(msg)
}

// Error always carries a stack trace. err may be nil.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.scoped(ctx).Error().Err(err).Str("stack", stack()).Msg(msg)
}

func stack() string {
	return strings.TrimSpace(string(debug.Stack()))
}
