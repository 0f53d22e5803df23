package realip

// PresetDirectConnection configures resolution for services that accept
// client connections directly, or through proxies that may omit forwarding
// headers.
//
// Candidate headers are still consulted first; the transport peer address is
// used when none of them yields an address.
func PresetDirectConnection() Option {
	return WithPeerFallback(true)
}

// PresetBehindProxy configures resolution for services that are only reached
// through a reverse proxy, load balancer or CDN.
//
// The transport peer fallback is disabled, so a request without usable
// forwarding headers fails with ErrAddressNotFound instead of reporting the
// proxy's address.
func PresetBehindProxy() Option {
	return WithPeerFallback(false)
}
