package realip

import (
	"errors"
	"net/http"
)

// ErrorHandler writes the response for a request whose client address could
// not be resolved. err matches ErrAddressNotFound unless the request context
// was cancelled.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler rejects the request with 400 Bad Request.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusBadRequest
	if !errors.Is(err, ErrAddressNotFound) {
		status = http.StatusInternalServerError
	}
	http.Error(w, http.StatusText(status), status)
}

// MiddlewareConfig configures the caching middleware.
type MiddlewareConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Required rejects requests without a resolvable address using
	// ErrorHandler instead of passing them on.
	Required bool
	// ErrorHandler handles resolution failures when Required is set
	// (default: DefaultErrorHandler).
	ErrorHandler ErrorHandler
	// ResponseHeader, when not empty, names a response header that echoes
	// the resolved address.
	ResponseHeader string
}

// Middleware resolves the client address once per request and stores it in
// the request context before calling next. Downstream handlers read it with
// FromContext or Extract without scanning the headers again.
//
// A request without a resolvable address is passed on unchanged.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return r.MiddlewareWithConfig(MiddlewareConfig{})(next)
}

// MiddlewareWithConfig returns a caching middleware with custom configuration.
func (r *Resolver) MiddlewareWithConfig(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if cfg.Skip != nil && cfg.Skip(req) {
				next.ServeHTTP(w, req)
				return
			}

			if _, ok := ResolutionFromContext(req.Context()); ok {
				next.ServeHTTP(w, req)
				return
			}

			res, err := r.Lookup(req)
			if err != nil {
				if cfg.Required {
					cfg.ErrorHandler(w, req, err)
					return
				}
				next.ServeHTTP(w, req)
				return
			}

			if cfg.ResponseHeader != "" {
				w.Header().Set(cfg.ResponseHeader, res.Address.String())
			}

			next.ServeHTTP(w, req.WithContext(NewContext(req.Context(), res)))
		})
	}
}

// Extract returns the client address of req, reading the value cached by
// Middleware when present and resolving fresh otherwise.
func (r *Resolver) Extract(req *http.Request) (Address, error) {
	res, err := r.ExtractResolution(req)
	if err != nil {
		return Address{}, err
	}
	return res.Address, nil
}

// ExtractResolution is like Extract but also reports the source.
func (r *Resolver) ExtractResolution(req *http.Request) (Resolution, error) {
	if req != nil {
		if res, ok := ResolutionFromContext(req.Context()); ok {
			return res, nil
		}
	}
	return r.Lookup(req)
}

// HandlerFunc is an HTTP handler that requires the client address.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, addr Address)

// Handler adapts fn into an http.Handler. The address is extracted with
// Extract; on failure onError (DefaultErrorHandler when nil) writes the
// response and fn is not called.
func (r *Resolver) Handler(fn HandlerFunc, onError ErrorHandler) http.Handler {
	if onError == nil {
		onError = DefaultErrorHandler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		addr, err := r.Extract(req)
		if err != nil {
			onError(w, req, err)
			return
		}
		fn(w, req, addr)
	})
}
