package realip

import (
	"net/netip"
)

// privacyPrefixBits is the number of leading IPv6 bits kept by Mask: the
// routing prefix. The trailing 64 bits (interface identifier) are cleared.
const privacyPrefixBits = 64

// Address is a resolved client address.
//
// Address values are immutable and comparable, so they can be used directly as
// map keys. Compare provides a total order.
type Address struct {
	ip netip.Addr
}

// AddressFrom wraps ip as an Address, unmapping IPv4-mapped IPv6 and dropping
// zones. It returns the zero Address if ip is invalid.
func AddressFrom(ip netip.Addr) Address {
	if !ip.IsValid() {
		return Address{}
	}
	return Address{ip: normalizeIP(ip)}
}

// Addr returns the underlying IP address.
func (a Address) Addr() netip.Addr {
	return a.ip
}

// IsValid reports whether a holds a resolved address. The zero Address is
// not valid.
func (a Address) IsValid() bool {
	return a.ip.IsValid()
}

// Is4 reports whether a is an IPv4 address.
func (a Address) Is4() bool {
	return a.ip.Is4()
}

// Is6 reports whether a is an IPv6 address.
func (a Address) Is6() bool {
	return a.ip.Is6()
}

// Compare orders addresses by IP. It returns -1, 0 or 1.
func (a Address) Compare(b Address) int {
	return a.ip.Compare(b.ip)
}

// Less reports whether a sorts before b.
func (a Address) Less(b Address) bool {
	return a.Compare(b) < 0
}

// String returns the textual form of the IP address.
func (a Address) String() string {
	if !a.ip.IsValid() {
		return ""
	}
	return a.ip.String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Mask returns the privacy-masked form of a.
func (a Address) Mask() MaskedAddress {
	return MaskedAddress{ip: Mask(a.ip)}
}

// Resolution is an Address together with the source that produced it.
type Resolution struct {
	Address Address
	// Source is the source name, for example "x_forwarded_for" or
	// "remote_addr".
	Source string
}

// MaskedAddress is an Address with the IPv6 interface identifier removed.
//
// For IPv4 it holds the same address. For IPv6 the low 64 bits are zero, so
// clients rotating temporary addresses within one /64 collapse to one value.
type MaskedAddress struct {
	ip netip.Addr
}

// Addr returns the masked IP address.
func (m MaskedAddress) Addr() netip.Addr {
	return m.ip
}

// IsValid reports whether m holds an address.
func (m MaskedAddress) IsValid() bool {
	return m.ip.IsValid()
}

// Compare orders masked addresses by IP. It returns -1, 0 or 1.
func (m MaskedAddress) Compare(other MaskedAddress) int {
	return m.ip.Compare(other.ip)
}

// Less reports whether m sorts before other.
func (m MaskedAddress) Less(other MaskedAddress) bool {
	return m.Compare(other) < 0
}

// String returns the textual form of the masked address.
func (m MaskedAddress) String() string {
	if !m.ip.IsValid() {
		return ""
	}
	return m.ip.String()
}

// MarshalText implements encoding.TextMarshaler.
func (m MaskedAddress) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Mask clears the low 64 bits of an IPv6 address, keeping its routing
// prefix. IPv4 addresses (including IPv4-mapped IPv6) are returned unchanged
// apart from unmapping. An invalid address is returned as is.
//
// Mask is idempotent: Mask(Mask(ip)) == Mask(ip).
func Mask(ip netip.Addr) netip.Addr {
	if !ip.IsValid() {
		return ip
	}

	ip = normalizeIP(ip)
	if ip.Is4() {
		return ip
	}

	prefix, err := ip.Prefix(privacyPrefixBits)
	if err != nil {
		return ip
	}
	return prefix.Addr()
}
