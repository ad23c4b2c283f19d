//go:build windows

package pmtu

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// CheckPrivileges verifies that the current process is running with
// Administrator privileges, which raw sockets require on Windows.
func CheckPrivileges() error {
	if isAdmin() {
		return nil
	}

	return fmt.Errorf("gmtu requires Administrator privileges for raw socket access; run as Administrator or use: runas /user:Administrator %s", strings.Join(os.Args, " "))
}

// HasNetRawCapability is a no-op on Windows (capabilities are a Linux concept).
func HasNetRawCapability() bool {
	return false
}

// isAdmin checks if the current process is running with Administrator privileges.
func isAdmin() bool {
	var sid *windows.SID

	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := windows.Token(0).IsMember(sid)
	if err != nil {
		return false
	}

	return member
}
