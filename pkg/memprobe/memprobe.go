// Package memprobe detects total physical memory once per process and
// derives an adaptive sync configuration from it.
//
// A Probe caches the first detection for its whole lifetime; it never
// re-detects and never reports an error. When every platform method fails
// the probe assumes FallbackTotalMemoryMB. The configuration returned by
// SyncConfiguration is recomputed on every call from the cached value.
//
// Most callers use the process-wide probe:
//
//	cfg := memprobe.CalculateSyncConfiguration()
//	flusher.SetInterval(cfg.SyncIntervalBytes, cfg.SyncInterval())
package memprobe

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/eunmann/memprobe/internal/logctx"
	"github.com/eunmann/memprobe/pkg/humanfmt"
	"github.com/eunmann/memprobe/pkg/sysmem"
)

// MemorySnapshot is the cached result of memory detection.
type MemorySnapshot struct {
	// TotalMB is the total physical memory in megabytes. Always positive.
	TotalMB int64 `json:"total_mb" yaml:"total_mb"`

	// Platform is the platform label the value was measured on.
	Platform string `json:"platform" yaml:"platform"`

	// Detected is false when TotalMB is FallbackTotalMemoryMB substituted
	// for a failed detection.
	Detected bool `json:"detected" yaml:"detected"`
}

// Probe owns one MemorySnapshot for its lifetime. It is safe for
// concurrent use; concurrent first callers wait for a single detection.
type Probe struct {
	detector   sysmem.Detector
	logger     zerolog.Logger
	thresholds Thresholds

	once     sync.Once
	snapshot MemorySnapshot
}

// Option configures a Probe.
type Option func(*Probe)

// WithDetector replaces the platform detector.
func WithDetector(d sysmem.Detector) Option {
	return func(p *Probe) {
		if d != nil {
			p.detector = d
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Probe) {
		p.logger = l
	}
}

// WithThresholds overrides the tier boundaries. Thresholds that are not
// Valid are ignored and the defaults kept.
func WithThresholds(th Thresholds) Option {
	return func(p *Probe) {
		p.thresholds = th
	}
}

// New creates a Probe. Detection is deferred until the first call that
// needs the total memory.
func New(opts ...Option) *Probe {
	p := &Probe{
		detector:   sysmem.NewDetector(),
		logger:     logctx.DefaultLogger(),
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if !p.thresholds.Valid() {
		p.logger.Warn().
			Int64("low_mb", p.thresholds.LowMB).
			Int64("high_mb", p.thresholds.HighMB).
			Msg("ignoring invalid memory tier thresholds")
		p.thresholds = DefaultThresholds()
	}
	return p
}

var defaultProbe = sync.OnceValue(func() *Probe { return New() })

// Default returns the process-wide Probe, creating it on first use.
func Default() *Probe {
	return defaultProbe()
}

// Thresholds returns the tier boundaries in effect.
func (p *Probe) Thresholds() Thresholds {
	return p.thresholds
}

// Snapshot returns the cached detection result, detecting on first call.
func (p *Probe) Snapshot() MemorySnapshot {
	p.once.Do(p.detect)
	return p.snapshot
}

func (p *Probe) detect() {
	snap := MemorySnapshot{
		TotalMB:  p.detector.TotalMemoryMB(),
		Platform: sysmem.PlatformName(),
		Detected: true,
	}
	if snap.TotalMB <= 0 {
		p.logger.Warn().
			Str("platform", snap.Platform).
			Int64("assumed_mb", FallbackTotalMemoryMB).
			Msg("could not detect system memory, assuming 4GB")
		snap.TotalMB = FallbackTotalMemoryMB
		snap.Detected = false
	}
	p.logger.Info().
		Int64("total_mb", snap.TotalMB).
		Str("total", humanfmt.MB(snap.TotalMB)).
		Str("platform", snap.Platform).
		Bool("detected", snap.Detected).
		Msg("detected total system memory")
	p.snapshot = snap
}

// TotalMemoryMB returns the total physical memory in megabytes. The first
// call detects it; later calls return the cached value.
func (p *Probe) TotalMemoryMB() int64 {
	return p.Snapshot().TotalMB
}

// AvailableMemoryMB returns the same value as TotalMemoryMB. Available
// memory fluctuates too much to drive sync intervals, so the stable total
// is used as the baseline. PlatformAvailableMemoryMB reports the live value.
func (p *Probe) AvailableMemoryMB() int64 {
	return p.TotalMemoryMB()
}

// PlatformAvailableMemoryMB queries the platform for currently available
// memory. The result is not cached and is 0 if detection fails.
func (p *Probe) PlatformAvailableMemoryMB() int64 {
	return max(0, p.detector.AvailableMemoryMB())
}

// PlatformName returns the platform label: "Windows", "macOS", "Linux" or
// "Unknown".
func (p *Probe) PlatformName() string {
	return sysmem.PlatformName()
}

// SyncConfiguration computes the sync configuration for the cached total
// memory.
func (p *Probe) SyncConfiguration() SyncConfiguration {
	cfg := Calculate(p.TotalMemoryMB(), p.thresholds)
	p.logger.Info().
		Str("memory_tier", cfg.MemoryTier).
		Stringer("tier", cfg.Tier).
		Int64("sync_interval_mb", cfg.SyncIntervalMB()).
		Str("sync_interval", humanfmt.Bytes(cfg.SyncIntervalBytes)).
		Int64("sync_interval_ms", cfg.SyncIntervalMs).
		Str("platform", p.PlatformName()).
		Msg("adaptive sync configuration")
	return cfg
}

// TotalMemoryMB returns Default().TotalMemoryMB().
func TotalMemoryMB() int64 {
	return Default().TotalMemoryMB()
}

// AvailableMemoryMB returns Default().AvailableMemoryMB().
func AvailableMemoryMB() int64 {
	return Default().AvailableMemoryMB()
}

// CalculateSyncConfiguration returns Default().SyncConfiguration().
func CalculateSyncConfiguration() SyncConfiguration {
	return Default().SyncConfiguration()
}

// PlatformName returns the platform label of this binary.
func PlatformName() string {
	return sysmem.PlatformName()
}
