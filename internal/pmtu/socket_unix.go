//go:build !windows

package pmtu

import (
	"syscall"
)

// socketFD represents a socket file descriptor on Unix systems.
type socketFD int

// invalidSocket represents an invalid socket value.
const invalidSocket socketFD = -1

// createRawSocket creates a socket with the given parameters.
func createRawSocket(domain, sockType, proto int) (socketFD, error) {
	fd, err := syscall.Socket(domain, sockType, proto)
	if err != nil {
		return invalidSocket, err
	}
	return socketFD(fd), nil
}

// closeSocket closes the socket.
func closeSocket(fd socketFD) error {
	return syscall.Close(int(fd))
}

// controlDontFragment sets the Don't Fragment option on the socket behind c.
func controlDontFragment(c syscall.Conn) error {
	rc, err := c.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	if err := rc.Control(func(fd uintptr) {
		sockErr = setDontFragment(socketFD(fd))
	}); err != nil {
		return err
	}
	return sockErr
}
