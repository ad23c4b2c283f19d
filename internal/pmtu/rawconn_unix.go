//go:build !windows

package pmtu

import (
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"golang.org/x/net/ipv4"
)

// RawTransport is a Transport over a raw IPv4 socket with header inclusion,
// so the DF flag and lengths of each probe go out exactly as built.
type RawTransport struct {
	conn *ipv4.RawConn
	buf  []byte
}

// OpenRawTransport opens a raw ICMP socket. It requires root or CAP_NET_RAW.
func OpenRawTransport() (*RawTransport, error) {
	const op = "open raw socket"

	if err := CheckPrivileges(); err != nil {
		return nil, newError(KindTransportOpen, op, err)
	}

	c, err := net.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return nil, newError(KindTransportOpen, op, err)
	}

	if ipc, ok := c.(*net.IPConn); ok {
		if err := controlDontFragment(ipc); err != nil {
			c.Close()
			return nil, newError(KindTransportOpen, op, fmt.Errorf("failed to set DF: %w", err))
		}
	}

	rc, err := ipv4.NewRawConn(c)
	if err != nil {
		c.Close()
		return nil, newError(KindTransportOpen, op, err)
	}

	return &RawTransport{
		conn: rc,
		buf:  make([]byte, maxDatagramLen),
	}, nil
}

// Send writes a datagram built by BuildEchoRequest. The header is decoded
// and handed to the socket so platform byte-order quirks are handled there.
func (t *RawTransport) Send(datagram []byte, dst net.IP) error {
	var ip layers.IPv4
	if err := ip.DecodeFromBytes(datagram, gopacket.NilDecodeFeedback); err != nil {
		return fmt.Errorf("failed to decode probe header: %w", err)
	}

	h := &ipv4.Header{
		Version:  int(ip.Version),
		Len:      int(ip.IHL) * 4,
		TOS:      int(ip.TOS),
		TotalLen: int(ip.Length),
		ID:       int(ip.Id),
		Flags:    ipv4.HeaderFlags(ip.Flags),
		FragOff:  int(ip.FragOffset),
		TTL:      int(ip.TTL),
		Protocol: int(ip.Protocol),
		Src:      ip.SrcIP,
		Dst:      dst.To4(),
	}

	return t.conn.WriteTo(h, ip.Payload, nil)
}

// Receive returns the next IPv4 datagram, header included.
func (t *RawTransport) Receive(timeout time.Duration) ([]byte, net.IP, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	h, p, _, err := t.conn.ReadFrom(t.buf)
	if err != nil {
		return nil, nil, err
	}

	n := h.Len + len(p)
	datagram := make([]byte, n)
	copy(datagram, t.buf[:n])
	return datagram, h.Src, nil
}

// Close closes the socket.
func (t *RawTransport) Close() error {
	return t.conn.Close()
}
