package realip

import "context"

// resolutionContextKey is used as a key for storing the resolved address in
// request context.
type resolutionContextKey struct{}

// NewContext returns a copy of ctx carrying res.
//
// An invalid address is not stored; ctx is returned unchanged.
func NewContext(ctx context.Context, res Resolution) context.Context {
	if !res.Address.IsValid() {
		return ctx
	}
	return context.WithValue(ctx, resolutionContextKey{}, res)
}

// FromContext returns the address stored in ctx by Middleware or NewContext.
func FromContext(ctx context.Context) (Address, bool) {
	res, ok := ResolutionFromContext(ctx)
	return res.Address, ok
}

// ResolutionFromContext returns the resolution stored in ctx by Middleware or
// NewContext.
func ResolutionFromContext(ctx context.Context) (Resolution, bool) {
	if ctx == nil {
		return Resolution{}, false
	}
	res, ok := ctx.Value(resolutionContextKey{}).(Resolution)
	return res, ok
}
