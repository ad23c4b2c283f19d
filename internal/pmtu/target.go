package pmtu

import (
	"fmt"
	"net"
	"net/netip"
)

// ParseTarget parses an IPv4 address literal. Hostnames, IPv6 and
// IPv4-mapped IPv6 addresses are rejected.
func ParseTarget(s string) (net.IP, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, newError(KindArgument, "parse target", fmt.Errorf("invalid IPv4 address %q", s))
	}

	if !addr.Is4() {
		return nil, newError(KindArgument, "parse target", fmt.Errorf("%q is not an IPv4 address", s))
	}

	b := addr.As4()
	return net.IPv4(b[0], b[1], b[2], b[3]).To4(), nil
}
