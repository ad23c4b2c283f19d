package pmtu

import (
	"net"
	"os"
	"testing"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// wrapIPv4 prepends a minimal IPv4 header carrying ICMP from src.
func wrapIPv4(src net.IP, payload []byte) []byte {
	hdr := make([]byte, IPv4HeaderLen, IPv4HeaderLen+len(payload))
	hdr[0] = 0x45
	hdr[8] = 64
	hdr[9] = protocolICMP
	copy(hdr[12:16], src.To4())
	return append(hdr, payload...)
}

func echoReplyDatagram(t *testing.T, src net.IP, size int) []byte {
	t.Helper()

	msg := &icmp.Message{
		Type: ipv4.ICMPTypeEchoReply,
		Code: 0,
		Body: &icmp.Echo{ID: 0, Seq: size, Data: make([]byte, size)},
	}
	b, err := msg.Marshal(nil)
	if err != nil {
		t.Fatalf("failed to marshal echo reply: %v", err)
	}
	return wrapIPv4(src, b)
}

func fragNeededDatagram(t *testing.T, src net.IP, mtu int) []byte {
	t.Helper()

	msg := &icmp.Message{
		Type: ipv4.ICMPTypeDestinationUnreachable,
		Code: 4,
		Body: &icmp.DstUnreach{Data: make([]byte, IPv4HeaderLen+ICMPHeaderLen)},
	}
	b, err := msg.Marshal(nil)
	if err != nil {
		t.Fatalf("failed to marshal fragmentation needed: %v", err)
	}
	b[6] = byte(mtu >> 8)
	b[7] = byte(mtu)
	return wrapIPv4(src, b)
}

// simulatedPath answers every probe from a scripted responder.
type simulatedPath struct {
	t       *testing.T
	src     net.IP
	respond func(size int) ([]byte, error)

	sent     []int
	dsts     []net.IP
	timeouts []time.Duration
	sendErr  error
}

func (s *simulatedPath) Send(datagram []byte, dst net.IP) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, len(datagram)-HeaderOverhead)
	s.dsts = append(s.dsts, dst)
	return nil
}

func (s *simulatedPath) Receive(timeout time.Duration) ([]byte, net.IP, error) {
	s.timeouts = append(s.timeouts, timeout)
	if len(s.sent) == 0 {
		s.t.Fatal("Receive called before Send")
	}
	b, err := s.respond(s.sent[len(s.sent)-1])
	if b == nil {
		return nil, nil, err
	}
	return b, s.src, err
}

// alwaysReply answers every probe with an Echo Reply.
func alwaysReply(t *testing.T, src net.IP) *simulatedPath {
	return &simulatedPath{t: t, src: src, respond: func(size int) ([]byte, error) {
		return echoReplyDatagram(t, src, size), nil
	}}
}

// pathWithMTU replies to probes that fit mtu and reports Fragmentation
// Needed for the rest.
func pathWithMTU(t *testing.T, src net.IP, mtu int) *simulatedPath {
	return &simulatedPath{t: t, src: src, respond: func(size int) ([]byte, error) {
		if size+HeaderOverhead <= mtu {
			return echoReplyDatagram(t, src, size), nil
		}
		return fragNeededDatagram(t, src, mtu), nil
	}}
}

// blackHole never answers.
func blackHole(t *testing.T) *simulatedPath {
	return &simulatedPath{t: t, respond: func(int) ([]byte, error) {
		return nil, &net.OpError{Op: "read", Net: "ip4:icmp", Err: os.ErrDeadlineExceeded}
	}}
}
