package pmtu

import (
	"errors"
	"net"
	"time"
)

// Transport sends raw IPv4 datagrams and receives the responses.
type Transport interface {
	// Send transmits a complete IPv4 datagram to dst.
	Send(datagram []byte, dst net.IP) error

	// Receive blocks for at most timeout and returns the next IPv4 datagram
	// and its source. A nil datagram with a nil error means nothing arrived.
	Receive(timeout time.Duration) (datagram []byte, src net.IP, err error)
}

// isTimeout checks if an error is a timeout error.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
