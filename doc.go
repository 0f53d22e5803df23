// Package realip resolves the real client address of HTTP requests that may
// have passed through reverse proxies, load balancers or CDNs.
//
// # Features
//
//   - Fixed, priority-ordered table of proxy and CDN headers
//   - Lenient parsing of forwarding chains, host:port forms, brackets and quotes
//   - Optional fallback to the transport peer (Request.RemoteAddr)
//   - Privacy mask that reduces IPv6 addresses to their /64 prefix
//   - Caching middleware so a request's headers are scanned at most once
//   - Optional context-aware logging and pluggable metrics
//   - Type-safe using modern Go netip.Addr
//
// # Header Priority
//
// Headers are consulted in this order; the first one holding a valid address
// wins and later headers are not read:
//
//	CF-Connecting-IP
//	X-Cluster-Client-IP
//	Fly-Client-IP
//	Fastly-Client-IP
//	CloudFront-Viewer-Address
//	X-Real-IP
//	X-Forwarded-For
//	X-Original-Forwarded-For
//	True-Client-IP
//	Client-IP
//
// A header holding something other than an address is skipped. Only the first
// entry of a comma-separated chain is considered.
//
// # Basic Usage
//
//	resolver, err := realip.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	addr, err := resolver.Resolve(req)
//	if errors.Is(err, realip.ErrAddressNotFound) {
//	    http.Error(w, "client address required", http.StatusBadRequest)
//	    return
//	}
//
//	fmt.Println(addr, addr.Mask())
//
// A request whose context is already cancelled is not scanned; its context
// error (context.Canceled or context.DeadlineExceeded) is returned instead of
// ErrAddressNotFound.
//
// # Middleware
//
// Middleware resolves once and stores the result in the request context:
//
//	mux := http.NewServeMux()
//	mux.Handle("/", resolver.Handler(func(w http.ResponseWriter, r *http.Request, addr realip.Address) {
//	    fmt.Fprintln(w, addr)
//	}, nil))
//
//	http.ListenAndServe(":8080", resolver.Middleware(mux))
//
// Handlers read the cached value with FromContext, or with Resolver.Extract,
// which falls back to a fresh resolution when nothing is cached.
//
// # Peer Fallback
//
// WithPeerFallback(true) uses Request.RemoteAddr when no header yields an
// address. Leave it disabled behind a proxy, where the peer is the proxy
// itself. The REALIP_PEER_FALLBACK environment variable can drive the
// setting through OptionsFromEnv. Applications that load their own
// configuration pass WithPeerFallback instead; realipd, for example, reads
// REALIPD_PEER_FALLBACK and ignores REALIP_PEER_FALLBACK.
//
// # Trust
//
// Header values are not authenticated. They are only as trustworthy as the
// proxy chain in front of the service; strip or overwrite these headers at
// the edge.
//
// # Observability
//
// The logger receives req.Context(), allowing trace/span IDs to flow through.
// A Prometheus adapter lives in github.com/abczzz13/realip/prometheus:
//
//	resolver, err := realip.New(
//	    realip.WithLogger(slog.Default()),
//	    realipprom.WithMetrics(),
//	)
//
// # Thread Safety
//
// Resolver instances are safe for concurrent use. They are typically created
// once at application startup and reused across all requests.
package realip
