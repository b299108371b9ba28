package memprobe

import (
	"fmt"
	"time"
)

// Tier thresholds and sync cadence constants.
const (
	// FallbackTotalMemoryMB is assumed when no detection method succeeds.
	FallbackTotalMemoryMB int64 = 4096

	// LowMemoryThresholdMB is the first total memory size in the Medium tier.
	LowMemoryThresholdMB int64 = 4096

	// HighMemoryThresholdMB is the first total memory size in the High tier.
	HighMemoryThresholdMB int64 = 16384

	// DefaultSyncIntervalMs is the time-based sync interval of the Medium tier.
	DefaultSyncIntervalMs int64 = 5000

	// LowSyncIntervalMs is the time-based sync interval of the Low tier.
	LowSyncIntervalMs int64 = 3000

	// HighSyncIntervalMs is the time-based sync interval of the High tier.
	HighSyncIntervalMs int64 = 7000
)

// Absolute bounds on the byte interval, applied after the tier formula.
const (
	MinSyncIntervalBytes int64 = 16 * bytesPerMB
	MaxSyncIntervalBytes int64 = 512 * bytesPerMB
)

const bytesPerMB = 1024 * 1024

// Tier is a memory-size bucket driving the sync cadence.
type Tier uint8

// Tiers in ascending memory order.
const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// MarshalText encodes the tier as its name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier name produced by MarshalText.
func (t *Tier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*t = TierLow
	case "medium":
		*t = TierMedium
	case "high":
		*t = TierHigh
	default:
		return fmt.Errorf("unknown memory tier: %q", text)
	}
	return nil
}

// label returns the human-readable tier description for totalMB.
func (t Tier) label(totalMB int64) string {
	switch t {
	case TierLow:
		return fmt.Sprintf("Low memory (%dMB)", totalMB)
	case TierMedium:
		return fmt.Sprintf("Medium memory (%dMB)", totalMB)
	default:
		return fmt.Sprintf("High memory (%dMB)", totalMB)
	}
}

// Thresholds are the tier boundaries in MB. A total below LowMB is Low, a
// total at or above HighMB is High, anything between is Medium.
type Thresholds struct {
	LowMB  int64
	HighMB int64
}

// DefaultThresholds returns the built-in tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{LowMB: LowMemoryThresholdMB, HighMB: HighMemoryThresholdMB}
}

// Valid reports whether 0 < LowMB < HighMB.
func (th Thresholds) Valid() bool {
	return th.LowMB > 0 && th.LowMB < th.HighMB
}

// Classify returns the tier for totalMB.
func (th Thresholds) Classify(totalMB int64) Tier {
	switch {
	case totalMB < th.LowMB:
		return TierLow
	case totalMB < th.HighMB:
		return TierMedium
	default:
		return TierHigh
	}
}

// SyncConfiguration parameterizes a persistence layer's flush cadence.
// It is derived on every request and never cached.
type SyncConfiguration struct {
	// SyncIntervalBytes is the amount of dirty data allowed to accumulate
	// before a flush. Always within [MinSyncIntervalBytes, MaxSyncIntervalBytes].
	SyncIntervalBytes int64 `json:"sync_interval_bytes" yaml:"sync_interval_bytes"`

	// SyncIntervalMs is the maximum time between flushes.
	SyncIntervalMs int64 `json:"sync_interval_ms" yaml:"sync_interval_ms"`

	// MemoryTier describes the tier and the memory size it was chosen for,
	// e.g. "Medium memory (8192MB)".
	MemoryTier string `json:"memory_tier" yaml:"memory_tier"`

	// Tier is the tier itself.
	Tier Tier `json:"tier" yaml:"tier"`
}

// SyncInterval returns SyncIntervalMs as a duration.
func (c SyncConfiguration) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalMs) * time.Millisecond
}

// SyncIntervalMB returns the byte interval in whole megabytes.
func (c SyncConfiguration) SyncIntervalMB() int64 {
	return c.SyncIntervalBytes / bytesPerMB
}

// Calculate derives the sync configuration for totalMB of memory.
//
//	Low     T < LowMB           max(16, T/64) MB    3000 ms
//	Medium  LowMB <= T < HighMB max(32, T/80) MB    5000 ms
//	High    T >= HighMB         min(256, max(64, T/64)) MB  7000 ms
//
// The result is then clamped to [MinSyncIntervalBytes, MaxSyncIntervalBytes]
// regardless of tier.
func Calculate(totalMB int64, th Thresholds) SyncConfiguration {
	tier := th.Classify(totalMB)

	var intervalMB, intervalMs int64
	switch tier {
	case TierLow:
		intervalMB = max(16, totalMB/64)
		intervalMs = LowSyncIntervalMs
	case TierMedium:
		intervalMB = max(32, totalMB/80)
		intervalMs = DefaultSyncIntervalMs
	default:
		intervalMB = min(256, max(64, totalMB/64))
		intervalMs = HighSyncIntervalMs
	}

	return SyncConfiguration{
		SyncIntervalBytes: clampBytes(intervalMB),
		SyncIntervalMs:    intervalMs,
		MemoryTier:        tier.label(totalMB),
		Tier:              tier,
	}
}

// clampBytes converts mb to bytes and bounds the result. Values whose byte
// count would overflow int64 saturate at the maximum.
func clampBytes(mb int64) int64 {
	if mb > MaxSyncIntervalBytes/bytesPerMB {
		return MaxSyncIntervalBytes
	}
	return min(MaxSyncIntervalBytes, max(MinSyncIntervalBytes, mb*bytesPerMB))
}
