//go:build linux

package sysmem

import "golang.org/x/sys/unix"

const platformName = PlatformLinux

// platformDetector queries sysinfo(2) first and falls back to parsing the
// meminfo report when the call fails or reports zero.
type platformDetector struct {
	sysinfo     func(*unix.Sysinfo_t) error
	meminfoPath string
}

func newPlatformDetector() platformDetector {
	return platformDetector{sysinfo: unix.Sysinfo, meminfoPath: MeminfoPath}
}

func (d platformDetector) TotalMemoryMB() int64 {
	if info, ok := d.query(); ok {
		// Total RAM in bytes = Totalram * Unit
		if mb := bytesToMB(uint64(info.Totalram) * uint64(info.Unit)); mb > 0 {
			return mb
		}
	}
	return meminfoTotalMB(d.meminfoPath)
}

func (d platformDetector) AvailableMemoryMB() int64 {
	if info, ok := d.query(); ok {
		free := (uint64(info.Freeram) + uint64(info.Bufferram)) * uint64(info.Unit)
		if mb := bytesToMB(free); mb > 0 {
			return mb
		}
	}
	return meminfoAvailableMB(d.meminfoPath)
}

func (d platformDetector) query() (unix.Sysinfo_t, bool) {
	var info unix.Sysinfo_t
	if d.sysinfo == nil {
		return info, false
	}
	if err := d.sysinfo(&info); err != nil {
		return info, false
	}
	return info, true
}
