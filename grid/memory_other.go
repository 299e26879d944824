//go:build !linux

package grid

func physicalMemory() uint64 { return 0 }
