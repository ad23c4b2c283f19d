package pmtu

// MinMTU is the minimum MTU for IPv4 (RFC 791).
const MinMTU = 68

// ParseMTUFromICMP extracts the next-hop MTU from an ICMP Destination
// Unreachable (Fragmentation Needed) message.
//
// ICMP message structure for Type 3, Code 4:
// - Type (1 byte): 3 (Destination Unreachable)
// - Code (1 byte): 4 (Fragmentation Needed and DF set)
// - Checksum (2 bytes)
// - unused (2 bytes)
// - Next-Hop MTU (2 bytes) - big-endian
// - Original IP header + first 8 bytes of original datagram
//
// Returns the MTU value and true if successfully parsed, or 0 and false otherwise.
// Routers predating RFC 1191 report 0, which is treated as absent.
func ParseMTUFromICMP(data []byte) (int, bool) {
	if len(data) < ICMPHeaderLen {
		return 0, false
	}

	if data[0] != 3 || data[1] != 4 {
		return 0, false
	}

	mtu := int(data[6])<<8 | int(data[7])
	if mtu == 0 {
		return 0, false
	}

	return mtu, true
}

// MTUSearchMidpoint calculates the next probe size of the binary search.
func MTUSearchMidpoint(low, high int) int {
	return (low + high) / 2
}
