// Package server implements realipd, an HTTP service that reports the
// client address it resolves for each request.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/abczzz13/realip"
	"github.com/abczzz13/realip/internal/config"
	"github.com/abczzz13/realip/internal/logging"
	realipprom "github.com/abczzz13/realip/prometheus"
)

const shutdownTimeout = 10 * time.Second

// ClientInfo is the document returned by the / and /ws endpoints.
type ClientInfo struct {
	IP        realip.Address       `json:"ip"`
	Masked    realip.MaskedAddress `json:"masked"`
	Source    string               `json:"source"`
	Version   int                  `json:"version"`
	RequestID string               `json:"request_id,omitempty"`
}

func newClientInfo(r *http.Request, res realip.Resolution) ClientInfo {
	version := 6
	if res.Address.Is4() {
		version = 4
	}
	return ClientInfo{
		IP:        res.Address,
		Masked:    res.Address.Mask(),
		Source:    res.Source,
		Version:   version,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
}

// Server wires the resolver, metrics and HTTP endpoints together.
type Server struct {
	cfg      *config.Config
	logger   zerolog.Logger
	resolver *realip.Resolver
	registry *prometheus.Registry
	upgrader websocket.Upgrader
}

// New creates a Server. Metrics are registered on a private registry served
// at /metrics. Extra resolver options are applied after the ones derived from
// cfg.
//
// The service reads its settings from REALIPD_* variables through cfg;
// realip.OptionsFromEnv (REALIP_*) is not consulted.
func New(cfg *config.Config, logger zerolog.Logger, opts ...realip.Option) (*Server, error) {
	registry := prometheus.NewRegistry()

	resolverOpts := []realip.Option{
		realip.WithPeerFallback(cfg.Resolver.PeerFallback),
		realip.WithLogger(logging.ResolverLogger{Logger: logger}),
		realipprom.WithRegisterer(registry),
	}
	resolver, err := realip.New(append(resolverOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create resolver: %w", err)
	}

	return &Server{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}, nil
}

// Handler returns the root HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.resolver.Handler(s.handleJSON, s.handleError))
	mux.Handle("GET /ip", s.resolver.Handler(s.handleText, s.handleError))
	mux.Handle("GET /ws", s.resolver.Handler(s.handleWebSocket, s.handleError))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	var h http.Handler = mux
	h = logging.CaptureClient(h)
	h = s.resolver.MiddlewareWithConfig(realip.MiddlewareConfig{
		Skip:           skipResolution,
		Required:       true,
		ErrorHandler:   s.handleError,
		ResponseHeader: s.cfg.Resolver.ResponseHeader,
	})(h)
	h = logging.AccessLogMiddleware(s.logger)(h)
	h = logging.RequestContextMiddleware(s.logger)(h)
	return h
}

// skipResolution leaves everything but the address routes to the mux, so
// /metrics, /healthz and unknown paths are never rejected for lacking an
// address.
func skipResolution(r *http.Request) bool {
	switch r.URL.Path {
	case "/", "/ip", "/ws":
		return false
	default:
		return true
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but uses an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Bool("peer_fallback", s.resolver.PeerFallback()).
			Msg("realipd listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info().Msg("realipd stopped")
	return nil
}

func (s *Server) resolution(r *http.Request, addr realip.Address) realip.Resolution {
	if res, ok := realip.ResolutionFromContext(r.Context()); ok {
		return res
	}
	return realip.Resolution{Address: addr}
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request, addr realip.Address) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newClientInfo(r, s.resolution(r, addr))); err != nil {
		logger := logging.FromContext(r.Context(), s.logger)
		logger.Error().Err(err).Msg("write response")
	}
}

func (s *Server) handleText(w http.ResponseWriter, _ *http.Request, addr realip.Address) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(addr.String() + "\n"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, addr realip.Address) {
	logger := logging.FromContext(r.Context(), s.logger)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(newClientInfo(r, s.resolution(r, addr))); err != nil {
		logger.Warn().Err(err).Msg("websocket write failed")
		return
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context(), s.logger)
	logger.Debug().Err(err).Msg("client address not resolved")
	realip.DefaultErrorHandler(w, r, err)
}
