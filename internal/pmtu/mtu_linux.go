//go:build linux

package pmtu

import "golang.org/x/sys/unix"

// setDontFragment sets the Don't Fragment (DF) bit on an IPv4 socket.
// On Linux this uses IP_MTU_DISCOVER with IP_PMTUDISC_DO, which also stops
// the local stack from fragmenting oversized probes.
func setDontFragment(fd socketFD) error {
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MTU_DISCOVER, unix.IP_PMTUDISC_DO)
}
