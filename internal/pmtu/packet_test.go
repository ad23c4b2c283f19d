package pmtu

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onesComplementSum folds all 16-bit words of b into a one's complement sum.
func onesComplementSum(b []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(b); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(b[i:]))
	}
	if len(b)%2 == 1 {
		sum += uint32(b[len(b)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return uint16(sum)
}

func TestBuildEchoRequest_LoopbackZeroPayloadFixture(t *testing.T) {
	expected := []byte{
		// IPv4 header
		0x45, 0x00, 0x00, 0x1c, 0x00, 0x00, 0x40, 0x00, 0x40, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x7f, 0x00, 0x00, 0x01,
		// ICMP Echo Request
		0x08, 0x00, 0xf7, 0xff, 0x00, 0x00, 0x00, 0x00,
	}

	got, err := BuildEchoRequest(net.ParseIP("127.0.0.1"), 0)

	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestBuildEchoRequest_LengthIsPayloadPlusHeaders(t *testing.T) {
	dst := net.ParseIP("192.0.2.10")

	for _, size := range []int{0, 1, 2, 7, 750, 1472, 1499, 1500, 9000, maxDatagramLen - HeaderOverhead} {
		pkt, err := BuildEchoRequest(dst, size)
		require.NoError(t, err, "size %d", size)

		assert.Len(t, pkt, size+HeaderOverhead, "size %d", size)
		assert.Equal(t, uint16(size+HeaderOverhead), binary.BigEndian.Uint16(pkt[2:4]), "total length for size %d", size)
	}
}

func TestBuildEchoRequest_HeaderFields(t *testing.T) {
	pkt, err := BuildEchoRequest(net.ParseIP("198.51.100.7"), 1000)
	require.NoError(t, err)

	assert.Equal(t, byte(0x45), pkt[0], "version 4, IHL 5")
	assert.Equal(t, uint16(0x4000), binary.BigEndian.Uint16(pkt[6:8]), "DF set, no fragment offset")
	assert.Equal(t, byte(64), pkt[8], "TTL")
	assert.Equal(t, byte(1), pkt[9], "protocol ICMP")
	assert.Equal(t, []byte{0, 0}, pkt[10:12], "header checksum left to the kernel")
	assert.Equal(t, []byte{0, 0, 0, 0}, pkt[12:16], "source left to the kernel")
	assert.Equal(t, []byte{198, 51, 100, 7}, pkt[16:20])

	icmp := pkt[IPv4HeaderLen:]
	assert.Equal(t, byte(8), icmp[0], "echo request")
	assert.Equal(t, byte(0), icmp[1], "code")
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(icmp[4:6]), "identifier")
	assert.Equal(t, uint16(1000), binary.BigEndian.Uint16(icmp[6:8]), "sequence carries the size")

	for i, b := range icmp[ICMPHeaderLen:] {
		if b != 0 {
			t.Fatalf("payload byte %d = %#x, want 0", i, b)
		}
	}
}

func TestBuildEchoRequest_ChecksumVerifies(t *testing.T) {
	dst := net.ParseIP("203.0.113.5")

	for _, size := range []int{0, 1, 3, 64, 749, 750, 1499} {
		pkt, err := BuildEchoRequest(dst, size)
		require.NoError(t, err)

		// A valid Internet checksum makes the complemented sum zero.
		assert.Equal(t, uint16(0), ^onesComplementSum(pkt[IPv4HeaderLen:]), "size %d", size)
	}
}

func TestBuildEchoRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		dst  net.IP
		size int
	}{
		{"negative size", net.ParseIP("192.0.2.1"), -1},
		{"total length overflow", net.ParseIP("192.0.2.1"), maxDatagramLen - HeaderOverhead + 1},
		{"far beyond limit", net.ParseIP("192.0.2.1"), 70000},
		{"ipv6 destination", net.ParseIP("2001:db8::1"), 100},
		{"nil destination", nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := BuildEchoRequest(tt.dst, tt.size)

			assert.Nil(t, pkt)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPacketBuild)
			assert.Equal(t, KindPacketBuild, KindOf(err))
		})
	}
}

func TestBuildEchoRequest_FreshBufferPerCall(t *testing.T) {
	dst := net.ParseIP("192.0.2.1")

	first, err := BuildEchoRequest(dst, 10)
	require.NoError(t, err)
	second, err := BuildEchoRequest(dst, 10)
	require.NoError(t, err)

	second[IPv4HeaderLen+ICMPHeaderLen] = 0xff
	assert.Equal(t, byte(0), first[IPv4HeaderLen+ICMPHeaderLen])
}
