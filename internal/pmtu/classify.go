package pmtu

import (
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// protocolICMP is the IANA protocol number used to parse ICMPv4 messages.
const protocolICMP = 1

// Response is the decoded ICMP part of a received datagram.
type Response struct {
	Type ipv4.ICMPType
	Code int

	// NextHopMTU is set for Fragmentation Needed messages that carry one.
	NextHopMTU int
}

// EchoReply reports whether the response is an ICMP Echo Reply.
func (r *Response) EchoReply() bool {
	return r.Type == ipv4.ICMPTypeEchoReply
}

// icmpPayload returns everything after the IPv4 header.
func icmpPayload(datagram []byte) ([]byte, bool) {
	if len(datagram) < IPv4HeaderLen {
		return nil, false
	}

	hdrLen := int(datagram[0]&0x0f) << 2
	if hdrLen < IPv4HeaderLen || hdrLen > len(datagram) {
		return nil, false
	}

	return datagram[hdrLen:], true
}

// ParseResponse decodes the ICMP message carried by an IPv4 datagram.
// It returns false for anything that is not a well-formed ICMP message.
func ParseResponse(datagram []byte) (*Response, bool) {
	payload, ok := icmpPayload(datagram)
	if !ok {
		return nil, false
	}

	msg, err := icmp.ParseMessage(protocolICMP, payload)
	if err != nil {
		return nil, false
	}

	typ, ok := msg.Type.(ipv4.ICMPType)
	if !ok {
		return nil, false
	}

	r := &Response{Type: typ, Code: msg.Code}
	if mtu, ok := ParseMTUFromICMP(payload); ok {
		r.NextHopMTU = mtu
	}
	return r, true
}

// IsEchoReply classifies a received IPv4 datagram. Only an ICMP Echo Reply
// counts; Fragmentation Needed, other types and malformed input are all false.
func IsEchoReply(datagram []byte) bool {
	r, ok := ParseResponse(datagram)
	return ok && r.EchoReply()
}
