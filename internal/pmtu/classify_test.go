package pmtu

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
)

func icmpDatagram(icmpType, code byte) []byte {
	return wrapIPv4(net.ParseIP("192.0.2.1"), []byte{icmpType, code, 0, 0, 0, 0, 0, 0})
}

func TestIsEchoReply_ByICMPType(t *testing.T) {
	tests := []struct {
		name     string
		icmpType byte
		code     byte
		expected bool
	}{
		{"echo reply", 0, 0, true},
		{"destination unreachable", 3, 1, false},
		{"fragmentation needed", 3, 4, false},
		{"echo request", 8, 0, false},
		{"time exceeded", 11, 0, false},
		{"parameter problem", 12, 0, false},
		{"timestamp reply", 14, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsEchoReply(icmpDatagram(tt.icmpType, tt.code))
			if got != tt.expected {
				t.Errorf("IsEchoReply(type %d) = %v, want %v", tt.icmpType, got, tt.expected)
			}
		})
	}
}

func TestIsEchoReply_MalformedInputIsFalse(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"shorter than IPv4 header", []byte{0x45, 0, 0, 0x1c}},
		{"header only", wrapIPv4(net.ParseIP("192.0.2.1"), nil)},
		{"truncated ICMP", wrapIPv4(net.ParseIP("192.0.2.1"), []byte{0, 0})},
		{"echo reply without identifier", wrapIPv4(net.ParseIP("192.0.2.1"), []byte{0, 0, 0, 0})},
		{"IHL below minimum", append([]byte{0x44}, make([]byte, 27)...)},
		{"IHL beyond buffer", append([]byte{0x4f}, make([]byte, 27)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, IsEchoReply(tt.data))
			})
		})
	}
}

func TestIsEchoReply_HonoursHeaderLength(t *testing.T) {
	// 24-byte header with one option word, followed by an Echo Reply.
	data := make([]byte, 24+ICMPHeaderLen)
	data[0] = 0x46
	data[9] = protocolICMP
	data[24] = 0

	assert.True(t, IsEchoReply(data))

	// Read with a fixed 20-byte offset this would be the option word.
	data[20] = 0
	data[24] = 8
	assert.False(t, IsEchoReply(data))
}

func TestIsEchoReply_OwnProbeIsNotAReply(t *testing.T) {
	pkt, err := BuildEchoRequest(net.ParseIP("127.0.0.1"), 100)
	require.NoError(t, err)

	assert.False(t, IsEchoReply(pkt))
}

func TestParseResponse_EchoReply(t *testing.T) {
	resp, ok := ParseResponse(echoReplyDatagram(t, net.ParseIP("192.0.2.1"), 32))

	require.True(t, ok)
	assert.Equal(t, ipv4.ICMPTypeEchoReply, resp.Type)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, 0, resp.NextHopMTU)
	assert.True(t, resp.EchoReply())
}

func TestParseResponse_FragmentationNeededCarriesMTU(t *testing.T) {
	resp, ok := ParseResponse(fragNeededDatagram(t, net.ParseIP("192.0.2.254"), 1400))

	require.True(t, ok)
	assert.Equal(t, ipv4.ICMPTypeDestinationUnreachable, resp.Type)
	assert.Equal(t, 4, resp.Code)
	assert.Equal(t, 1400, resp.NextHopMTU)
	assert.False(t, resp.EchoReply())
}

func TestParseResponse_RejectsGarbage(t *testing.T) {
	_, ok := ParseResponse([]byte{0xde, 0xad})
	assert.False(t, ok)
}
