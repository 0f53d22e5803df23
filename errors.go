package realip

import "errors"

// ErrAddressNotFound is returned when no candidate header holds a valid
// address and no transport peer fallback is available.
//
// It is the only resolution failure. Callers decide how to surface it; the
// HTTP helpers in this package map it to 400 Bad Request by default.
var ErrAddressNotFound = errors.New("client address not found")
