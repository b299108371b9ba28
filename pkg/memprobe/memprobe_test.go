package memprobe

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunmann/memprobe/pkg/sysmem"
)

// fakeDetector reports a value that tests may change after the first query.
type fakeDetector struct {
	total      atomic.Int64
	available  atomic.Int64
	totalCalls atomic.Int64
}

func newFakeDetector(totalMB int64) *fakeDetector {
	d := &fakeDetector{}
	d.total.Store(totalMB)
	return d
}

func (d *fakeDetector) TotalMemoryMB() int64 {
	d.totalCalls.Add(1)
	return d.total.Load()
}

func (d *fakeDetector) AvailableMemoryMB() int64 {
	return d.available.Load()
}

func newTestProbe(t *testing.T, d sysmem.Detector, opts ...Option) (*Probe, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithLogger(zerolog.New(&buf)), WithDetector(d)}, opts...)
	return New(opts...), &buf
}

func TestTotalMemoryMBCachesFirstDetection(t *testing.T) {
	d := newFakeDetector(8192)
	p, _ := newTestProbe(t, d)

	first := p.TotalMemoryMB()
	d.total.Store(65536)
	second := p.TotalMemoryMB()

	assert.Equal(t, int64(8192), first)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), d.totalCalls.Load())
}

func TestTotalMemoryMBFallback(t *testing.T) {
	for _, reported := range []int64{0, -1, -4096} {
		d := newFakeDetector(reported)
		p, buf := newTestProbe(t, d)

		assert.Equal(t, int64(4096), p.TotalMemoryMB())
		snap := p.Snapshot()
		assert.False(t, snap.Detected)
		assert.Equal(t, FallbackTotalMemoryMB, snap.TotalMB)
		assert.Contains(t, buf.String(), "could not detect system memory")
	}
}

func TestFallbackIsCachedToo(t *testing.T) {
	d := newFakeDetector(0)
	p, _ := newTestProbe(t, d)

	require.Equal(t, int64(4096), p.TotalMemoryMB())
	d.total.Store(2048)
	assert.Equal(t, int64(4096), p.TotalMemoryMB())
	assert.Equal(t, int64(1), d.totalCalls.Load())
}

func TestSnapshot(t *testing.T) {
	p, buf := newTestProbe(t, sysmem.Static{TotalMB: 16384})

	snap := p.Snapshot()
	assert.Equal(t, MemorySnapshot{
		TotalMB:  16384,
		Platform: sysmem.PlatformName(),
		Detected: true,
	}, snap)
	assert.Contains(t, buf.String(), "detected total system memory")
	assert.Contains(t, buf.String(), `"total_mb":16384`)
	assert.NotContains(t, buf.String(), "could not detect")
}

func TestDetectionIsLazy(t *testing.T) {
	d := newFakeDetector(8192)
	p, buf := newTestProbe(t, d)

	assert.Equal(t, int64(0), d.totalCalls.Load())
	assert.Empty(t, buf.String())

	p.TotalMemoryMB()
	assert.Equal(t, int64(1), d.totalCalls.Load())
}

func TestConcurrentFirstAccessDetectsOnce(t *testing.T) {
	d := newFakeDetector(12288)
	p, _ := newTestProbe(t, d)

	const goroutines = 32
	results := make([]int64, goroutines)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = p.TotalMemoryMB()
		}()
	}
	close(start)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, int64(12288), r)
	}
	assert.Equal(t, int64(1), d.totalCalls.Load())
}

func TestAvailableMemoryMBReturnsTotal(t *testing.T) {
	d := newFakeDetector(8192)
	d.available.Store(1234)
	p, _ := newTestProbe(t, d)

	assert.Equal(t, p.TotalMemoryMB(), p.AvailableMemoryMB())
	assert.Equal(t, int64(1234), p.PlatformAvailableMemoryMB())

	// The live query is not cached.
	d.available.Store(999)
	assert.Equal(t, int64(999), p.PlatformAvailableMemoryMB())
	assert.Equal(t, int64(8192), p.AvailableMemoryMB())
}

func TestPlatformAvailableMemoryMBNeverNegative(t *testing.T) {
	p, _ := newTestProbe(t, sysmem.Static{TotalMB: 8192, AvailableMB: -5})
	assert.Equal(t, int64(0), p.PlatformAvailableMemoryMB())
}

func TestSyncConfigurationUsesCachedTotal(t *testing.T) {
	d := newFakeDetector(2048)
	p, buf := newTestProbe(t, d)

	cfg := p.SyncConfiguration()
	assert.Equal(t, TierLow, cfg.Tier)
	assert.Equal(t, int64(32), cfg.SyncIntervalMB())
	assert.Equal(t, int64(3000), cfg.SyncIntervalMs)

	d.total.Store(65536)
	again := p.SyncConfiguration()
	assert.Equal(t, cfg, again)

	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("adaptive sync configuration")))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("detected total system memory")))
}

func TestSyncConfigurationFallbackIsMedium(t *testing.T) {
	p, _ := newTestProbe(t, newFakeDetector(0))

	cfg := p.SyncConfiguration()
	assert.Equal(t, TierMedium, cfg.Tier)
	assert.Equal(t, "Medium memory (4096MB)", cfg.MemoryTier)
	assert.Equal(t, int64(51), cfg.SyncIntervalMB())
	assert.Equal(t, DefaultSyncIntervalMs, cfg.SyncIntervalMs)
}

func TestWithThresholds(t *testing.T) {
	th := Thresholds{LowMB: 1024, HighMB: 2048}
	p, _ := newTestProbe(t, sysmem.Static{TotalMB: 4096}, WithThresholds(th))

	assert.Equal(t, th, p.Thresholds())
	assert.Equal(t, TierHigh, p.SyncConfiguration().Tier)
}

func TestWithThresholdsInvalidKeepsDefaults(t *testing.T) {
	p, buf := newTestProbe(t, sysmem.Static{TotalMB: 4096}, WithThresholds(Thresholds{LowMB: 8192, HighMB: 1024}))

	assert.Equal(t, DefaultThresholds(), p.Thresholds())
	assert.Contains(t, buf.String(), "ignoring invalid memory tier thresholds")
}

func TestWithDetectorNilKeepsPlatformDetector(t *testing.T) {
	p := New(WithLogger(zerolog.Nop()), WithDetector(nil))
	assert.NotNil(t, p.detector)
}

func TestPlatformName(t *testing.T) {
	name := PlatformName()
	assert.Contains(t, []string{"Windows", "macOS", "Linux", "Unknown"}, name)
	assert.Equal(t, name, New(WithLogger(zerolog.Nop())).PlatformName())
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())

	total := TotalMemoryMB()
	assert.Positive(t, total)
	assert.Equal(t, total, AvailableMemoryMB())

	cfg := CalculateSyncConfiguration()
	assert.GreaterOrEqual(t, cfg.SyncIntervalBytes, MinSyncIntervalBytes)
	assert.LessOrEqual(t, cfg.SyncIntervalBytes, MaxSyncIntervalBytes)
}
