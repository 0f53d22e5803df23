package logging

import (
	"bufio"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abczzz13/realip"
)

// RequestIDHeader is the request and response header carrying the request id.
const RequestIDHeader = "X-Request-ID"

// RequestContextMiddleware attaches a request id and a request-scoped logger
// to the request context. An incoming X-Request-ID is reused.
func RequestContextMiddleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			logger := base.With().Str("request_id", requestID).Logger()
			ctx := contextWithLogger(r.Context(), logger, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is needed by the websocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if r.status == 0 {
		r.status = http.StatusSwitchingProtocols
	}
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

// AccessLogMiddleware logs one line per request, including the client
// address recorded by CaptureClient further down the chain.
func AccessLogMiddleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			holder := &clientHolder{}
			next.ServeHTTP(rec, r.WithContext(withClientHolder(r.Context(), holder)))

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			logger := FromContext(r.Context(), base)
			event := logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", time.Since(start))
			if holder.res.Address.IsValid() {
				event = event.
					Str("client_ip", holder.res.Address.String()).
					Str("client_ip_source", holder.res.Source)
			}
			event.Msg("request completed")
		})
	}
}

// CaptureClient records the resolution cached in the request context so the
// access log can report it. It must run inside the realip middleware.
func CaptureClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if holder := clientHolderFromContext(r.Context()); holder != nil {
			if res, ok := realip.ResolutionFromContext(r.Context()); ok {
				holder.res = res
			}
		}
		next.ServeHTTP(w, r)
	})
}
