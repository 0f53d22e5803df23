package realip

import (
	"net"
	"net/netip"
	"strings"
)

// parseCandidate extracts a single address from a candidate header value.
// It handles:
//   - Forwarding chains: "203.0.113.7, 70.41.3.18" (first hop wins)
//   - Port suffixes: "203.0.113.7:4711" or "[2001:db8::1]:4711"
//   - Leading/trailing whitespace and matched quotes
//   - Bare IPv6 literals: "2001:db8::1" is kept whole
//
// A value containing a colon is first tried as a complete literal so that
// IPv6 addresses are not cut at their first group. Only when that fails is it
// treated as host:port. For IPv4 input this is the same as splitting on both
// ',' and ':' and keeping the first token.
//
// Returns an invalid netip.Addr (IsValid() == false) if nothing usable is
// found. It never fails harder than that.
func parseCandidate(value string) netip.Addr {
	first, _, _ := strings.Cut(value, ",")
	return parseIP(first)
}

// parseIP parses a single address token, tolerating ports, brackets, quotes
// and surrounding whitespace.
func parseIP(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}
	}

	s = trimMatchedChar(s, '"')
	s = trimMatchedChar(s, '\'')
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}
	}

	if ip, err := netip.ParseAddr(s); err == nil {
		return normalizeIP(ip)
	}

	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	} else if i := strings.IndexByte(s, ':'); i >= 0 && !strings.HasPrefix(s, "[") {
		s = s[:i]
	}

	s = trimMatchedPair(strings.TrimSpace(s), '[', ']')

	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}
	}
	return normalizeIP(ip)
}

// normalizeIP unmaps IPv4-in-IPv6 addresses and drops IPv6 zones so equal
// hosts compare equal.
func normalizeIP(ip netip.Addr) netip.Addr {
	if ip.Is4In6() {
		return ip.Unmap()
	}
	if ip.Zone() != "" {
		return ip.WithZone("")
	}
	return ip
}

// trimMatchedPair removes one leading and trailing delimiter when both match.
func trimMatchedPair(s string, start, end byte) string {
	if len(s) < 2 {
		return s
	}

	if s[0] != start || s[len(s)-1] != end {
		return s
	}

	return s[1 : len(s)-1]
}

// trimMatchedChar removes one matching leading and trailing character.
func trimMatchedChar(s string, ch byte) string {
	return trimMatchedPair(s, ch, ch)
}
