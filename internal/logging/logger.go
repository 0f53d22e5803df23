package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abczzz13/realip/internal/config"
)

type contextKey string

const (
	loggerKey    contextKey = "realipd_logger"
	requestIDKey contextKey = "realipd_request_id"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
}

// New builds a logger writing to w according to cfg.
func New(w io.Writer, cfg config.LoggingConfig) zerolog.Logger {
	var output io.Writer = w
	if strings.ToLower(cfg.Format) != "json" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339Nano,
			NoColor:    true,
		}
	}

	return zerolog.New(output).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

func parseLevel(value string) zerolog.Level {
	switch strings.ToLower(value) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// FromContext returns the request-scoped logger, or fallback when none is
// attached.
func FromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return fallback
	}
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return fallback
}

// RequestIDFromContext extracts the request identifier from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

func contextWithLogger(ctx context.Context, logger zerolog.Logger, reqID string) context.Context {
	ctx = context.WithValue(ctx, loggerKey, logger)
	if reqID != "" {
		ctx = context.WithValue(ctx, requestIDKey, reqID)
	}
	return ctx
}

// ResolverLogger adapts a zerolog.Logger to realip.Logger. Request-scoped
// loggers attached by RequestContextMiddleware take precedence, so warnings
// carry the request id.
type ResolverLogger struct {
	Logger zerolog.Logger
}

// WarnContext implements realip.Logger.
func (l ResolverLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	logger := FromContext(ctx, l.Logger)
	logger.Warn().Fields(args).Msg(msg)
}
