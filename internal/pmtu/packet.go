package pmtu

import (
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	probeTTL       = 64
	maxDatagramLen = 65535
)

// BuildEchoRequest assembles an IPv4 datagram with the DF flag set that
// carries an ICMP Echo Request with size zero bytes of payload.
//
// The sequence number is the payload size, so replies can be matched by eye
// in a capture. Source address, identification and header checksum are left
// zero for the kernel to fill in on a header-including raw socket.
func BuildEchoRequest(dst net.IP, size int) ([]byte, error) {
	const op = "build probe packet"

	if size < 0 {
		return nil, newError(KindPacketBuild, op, fmt.Errorf("negative payload size %d", size))
	}
	if size+HeaderOverhead > maxDatagramLen {
		return nil, newError(KindPacketBuild, op,
			fmt.Errorf("payload size %d exceeds IPv4 total length limit of %d bytes", size, maxDatagramLen))
	}

	dst4 := dst.To4()
	if dst4 == nil {
		return nil, newError(KindPacketBuild, op, fmt.Errorf("destination %v is not an IPv4 address", dst))
	}

	icmpLayer := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
		Id:       0,
		Seq:      uint16(size),
	}

	ipLayer := &layers.IPv4{
		Version:  4,
		TTL:      probeTTL,
		Flags:    layers.IPv4DontFragment,
		Protocol: layers.IPProtocolICMPv4,
		SrcIP:    net.IPv4zero,
		DstIP:    dst4,
	}

	buf := gopacket.NewSerializeBufferExpectedSize(size+HeaderOverhead, 0)

	// ICMP checksum covers header and payload; the IPv4 header checksum stays zero.
	err := gopacket.SerializeLayers(buf,
		gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true},
		icmpLayer,
		gopacket.Payload(make([]byte, size)),
	)
	if err != nil {
		return nil, newError(KindPacketBuild, op, err)
	}

	if err := ipLayer.SerializeTo(buf, gopacket.SerializeOptions{FixLengths: true}); err != nil {
		return nil, newError(KindPacketBuild, op, err)
	}

	return buf.Bytes(), nil
}
