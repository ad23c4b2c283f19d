//go:build !windows

package pmtu

import (
	"fmt"
	"os"
	"strings"
)

// CheckPrivileges verifies that the current process may open a raw IPv4
// socket. Returns nil if privileged, error otherwise with a helpful message.
func CheckPrivileges() error {
	if os.Geteuid() == 0 {
		return nil
	}

	if HasNetRawCapability() {
		return nil
	}

	return fmt.Errorf("gmtu requires elevated privileges for raw socket access; run with: sudo %s", strings.Join(os.Args, " "))
}

// HasNetRawCapability checks if the current process has CAP_NET_RAW capability (Linux only).
// On non-Linux Unix systems (macOS, BSD), this always returns false since capabilities aren't supported.
func HasNetRawCapability() bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return false
	}

	return hasNetRawInStatus(string(data))
}

// hasNetRawInStatus looks for CAP_NET_RAW (bit 13) in the CapEff line of a
// /proc/<pid>/status dump.
func hasNetRawInStatus(status string) bool {
	for _, line := range strings.Split(status, "\n") {
		if !strings.HasPrefix(line, "CapEff:") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return false
		}

		var capMask uint64
		if _, err := fmt.Sscanf(fields[1], "%x", &capMask); err != nil {
			return false
		}

		const capNetRaw = 1 << 13
		return capMask&capNetRaw != 0
	}

	return false
}
