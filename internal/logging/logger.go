package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey struct{}

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the package logger. Development uses a human-readable console writer.
func Init(level string, isDevelopment bool) {
	initWith(os.Stdout, level, isDevelopment)
}

func initWith(w io.Writer, level string, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if isDevelopment {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if isDevelopment {
		ctx = ctx.Caller()
	}
	logger = ctx.Logger()
}

func Logger() *zerolog.Logger {
	return &logger
}

// WithRequestID returns a context whose log events carry the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request id stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func WithContext(ctx context.Context) zerolog.Logger {
	lc := logger.With()
	if id := RequestID(ctx); id != "" {
		lc = lc.Str("requestId", id)
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		lc = lc.
			Str("traceId", span.SpanContext().TraceID().String()).
			Str("spanId", span.SpanContext().SpanID().String())
	}
	return lc.Logger()
}

func Info(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Info()
}

func Error(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Error()
}

func Debug(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Debug()
}

func Warn(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Warn()
}
