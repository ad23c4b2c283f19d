//go:build windows

package pmtu

import (
	"errors"
	"net"
	"time"
)

var errRawUnsupported = errors.New("raw IPv4 sockets with header inclusion are not supported on windows")

// RawTransport is unavailable on Windows.
type RawTransport struct{}

// OpenRawTransport always fails on Windows after the privilege check.
func OpenRawTransport() (*RawTransport, error) {
	const op = "open raw socket"

	if err := CheckPrivileges(); err != nil {
		return nil, newError(KindTransportOpen, op, err)
	}
	return nil, newError(KindTransportOpen, op, errRawUnsupported)
}

func (t *RawTransport) Send(datagram []byte, dst net.IP) error {
	return errRawUnsupported
}

func (t *RawTransport) Receive(timeout time.Duration) ([]byte, net.IP, error) {
	return nil, nil, errRawUnsupported
}

func (t *RawTransport) Close() error {
	return nil
}
