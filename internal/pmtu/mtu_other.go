//go:build !linux && !darwin && !windows

package pmtu

// setDontFragment is a no-op here; probes carry DF in the header they
// supply themselves.
func setDontFragment(fd socketFD) error {
	return nil
}
