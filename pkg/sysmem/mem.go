// Package sysmem provides cross-platform system memory detection.
//
// Each supported platform contributes one Detector variant selected at build
// time. Detectors never return errors: a failed query reports 0 and callers
// decide which default to substitute.
package sysmem

// Platform labels reported by PlatformName.
const (
	PlatformWindows = "Windows"
	PlatformMacOS   = "macOS"
	PlatformLinux   = "Linux"
	PlatformUnknown = "Unknown"
)

const bytesPerMB = 1024 * 1024

// Detector queries the host for physical memory.
//
// Both methods return megabytes, or 0 when every detection method on the
// platform failed.
type Detector interface {
	// TotalMemoryMB returns the total physical memory.
	TotalMemoryMB() int64

	// AvailableMemoryMB returns an estimate of memory available for new
	// allocations. The value is volatile and is not cached.
	AvailableMemoryMB() int64
}

// NewDetector returns the Detector compiled for the current platform.
func NewDetector() Detector {
	return newPlatformDetector()
}

// PlatformName returns the label of the platform this binary was built for.
func PlatformName() string {
	return platformName
}

// Static is a Detector that reports fixed values. It is used to evaluate
// configurations for a hypothetical host and to simulate platforms in tests.
type Static struct {
	TotalMB     int64
	AvailableMB int64
}

// TotalMemoryMB implements Detector.
func (s Static) TotalMemoryMB() int64 { return s.TotalMB }

// AvailableMemoryMB implements Detector.
func (s Static) AvailableMemoryMB() int64 { return s.AvailableMB }

// bytesToMB converts a byte count to whole megabytes. Any uint64 byte count
// fits in an int64 once divided.
func bytesToMB(b uint64) int64 {
	return int64(b / bytesPerMB)
}
