//go:build !linux && !darwin && !windows

package sysmem

const platformName = PlatformUnknown

// platformDetector has no detection method on this platform. Both queries
// report 0 so callers fall back to their defaults.
type platformDetector struct{}

func newPlatformDetector() platformDetector { return platformDetector{} }

func (platformDetector) TotalMemoryMB() int64 { return 0 }

func (platformDetector) AvailableMemoryMB() int64 { return 0 }
