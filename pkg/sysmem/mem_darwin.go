//go:build darwin

package sysmem

import (
	"bytes"
	"os/exec"

	"golang.org/x/sys/unix"
)

const platformName = PlatformMacOS

// platformDetector reads hw.memsize for total memory. Available memory is
// free + inactive pages, from the VM sysctl counters when the kernel exports
// them and otherwise from the vm_stat report.
type platformDetector struct{}

func newPlatformDetector() platformDetector { return platformDetector{} }

func (platformDetector) TotalMemoryMB() int64 {
	// hw.memsize returns total physical memory in bytes
	mem, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return bytesToMB(mem)
}

func (platformDetector) AvailableMemoryMB() int64 {
	if mb := sysctlAvailableMB(); mb > 0 {
		return mb
	}
	out, err := exec.Command("vm_stat").Output()
	if err != nil {
		return 0
	}
	return ParseVMStat(bytes.NewReader(out)).AvailableMB()
}

func sysctlAvailableMB() int64 {
	free, err := unix.SysctlUint32("vm.page_free_count")
	if err != nil {
		return 0
	}
	inactive, err := unix.SysctlUint32("vm.page_inactive_count")
	if err != nil {
		return 0
	}
	return vmstatFromCounters(free, inactive, unix.Getpagesize()).AvailableMB()
}
