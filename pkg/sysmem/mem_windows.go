//go:build windows

package sysmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const platformName = PlatformWindows

// memoryStatusEx matches the Windows MEMORYSTATUSEX structure.
// https://learn.microsoft.com/en-us/windows/win32/api/sysinfoapi/ns-sysinfoapi-memorystatusex
type memoryStatusEx struct {
	Length               uint32
	MemoryLoad           uint32
	TotalPhys            uint64
	AvailPhys            uint64
	TotalPageFile        uint64
	AvailPageFile        uint64
	TotalVirtual         uint64
	AvailVirtual         uint64
	AvailExtendedVirtual uint64
}

var (
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procGlobalMemoryStatusEx = kernel32.NewProc("GlobalMemoryStatusEx")
)

// platformDetector uses GlobalMemoryStatusEx for both queries. Windows has
// no textual fallback.
type platformDetector struct{}

func newPlatformDetector() platformDetector { return platformDetector{} }

func (platformDetector) TotalMemoryMB() int64 {
	status, ok := globalMemoryStatus()
	if !ok {
		return 0
	}
	return bytesToMB(status.TotalPhys)
}

func (platformDetector) AvailableMemoryMB() int64 {
	status, ok := globalMemoryStatus()
	if !ok {
		return 0
	}
	return bytesToMB(status.AvailPhys)
}

func globalMemoryStatus() (memoryStatusEx, bool) {
	var memStatus memoryStatusEx
	memStatus.Length = uint32(unsafe.Sizeof(memStatus))

	if err := procGlobalMemoryStatusEx.Find(); err != nil {
		return memoryStatusEx{}, false
	}
	ret, _, _ := procGlobalMemoryStatusEx.Call(uintptr(unsafe.Pointer(&memStatus)))
	if ret == 0 {
		return memoryStatusEx{}, false
	}
	return memStatus, true
}
