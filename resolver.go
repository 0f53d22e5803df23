package realip

import (
	"context"
	"fmt"
	"net/http"
)

// Resolver determines the client address of HTTP requests from the fixed
// candidate header table, with an optional transport peer fallback.
//
// Resolver instances are immutable and safe for concurrent reuse.
type Resolver struct {
	config *config
}

// New creates a Resolver from one or more Option builders.
func New(opts ...Option) (*Resolver, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Resolver{config: cfg}, nil
}

// PeerFallback reports whether the transport peer fallback is enabled.
func (r *Resolver) PeerFallback() bool {
	return r.config.peerFallback
}

// Resolve scans the candidate headers of req and returns the client address.
//
// It does not consult a value cached by Middleware; use Extract for that.
// It returns ErrAddressNotFound when nothing yields an address.
func (r *Resolver) Resolve(req *http.Request) (Address, error) {
	res, err := r.Lookup(req)
	if err != nil {
		return Address{}, err
	}

	return res.Address, nil
}

// Lookup is like Resolve but also reports which source produced the address.
func (r *Resolver) Lookup(req *http.Request) (Resolution, error) {
	return r.LookupFrom(inputFromRequest(req))
}

// ResolveFrom resolves the client address from framework-agnostic request
// input.
func (r *Resolver) ResolveFrom(input RequestInput) (Address, error) {
	res, err := r.LookupFrom(input)
	if err != nil {
		return Address{}, err
	}

	return res.Address, nil
}

// LookupFrom is like ResolveFrom but also reports which source produced the
// address.
func (r *Resolver) LookupFrom(input RequestInput) (Resolution, error) {
	ctx := requestInputContext(input)
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	for i, header := range candidateHeaders {
		values := headerValues(input.Headers, header)
		if len(values) == 0 || values[0] == "" {
			continue
		}

		source := candidateSources[i]
		ip := parseCandidate(values[0])
		if !ip.IsValid() {
			r.config.metrics.RecordInvalid(source)
			r.logWarning(ctx, input, source, eventInvalidHeader, "candidate header holds no valid address",
				"header", header,
				"value", values[0],
			)
			continue
		}

		r.config.metrics.RecordResolution(source)
		return Resolution{Address: AddressFrom(ip), Source: source}, nil
	}

	if r.config.peerFallback && input.RemoteAddr != "" {
		ip := parseIP(input.RemoteAddr)
		if ip.IsValid() {
			r.config.metrics.RecordResolution(SourceRemoteAddr)
			return Resolution{Address: AddressFrom(ip), Source: SourceRemoteAddr}, nil
		}

		r.config.metrics.RecordInvalid(SourceRemoteAddr)
		r.logWarning(ctx, input, SourceRemoteAddr, eventInvalidRemoteAddr, "transport peer address is not a valid IP")
	}

	r.config.metrics.RecordNotFound()
	return Resolution{}, ErrAddressNotFound
}

func (r *Resolver) logWarning(ctx context.Context, input RequestInput, source, event, msg string, attrs ...any) {
	baseAttrs := []any{
		"event", event,
		"source", source,
		"path", input.Path,
		"remote_addr", input.RemoteAddr,
	}

	baseAttrs = append(baseAttrs, attrs...)
	r.config.logger.WarnContext(ctx, msg, baseAttrs...)
}

// ResolveWithOptions is a one-shot convenience helper.
//
// It constructs a temporary resolver from opts and resolves the client
// address of req.
func ResolveWithOptions(req *http.Request, opts ...Option) (Address, error) {
	resolver, err := New(opts...)
	if err != nil {
		return Address{}, err
	}

	return resolver.Resolve(req)
}

// ResolveFromWithOptions is a one-shot convenience helper.
//
// It constructs a temporary resolver from opts and resolves the client
// address from framework-agnostic request input.
func ResolveFromWithOptions(input RequestInput, opts ...Option) (Address, error) {
	resolver, err := New(opts...)
	if err != nil {
		return Address{}, err
	}

	return resolver.ResolveFrom(input)
}
