//go:build linux

package grid

import "golang.org/x/sys/unix"

// physicalMemory returns the total physical memory in bytes, or 0 if it
// cannot be determined.
func physicalMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(info.Totalram) * unit
}
