package sysmem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMeminfo = `MemTotal:       16318460 kB
MemFree:         1203312 kB
MemAvailable:    9876544 kB
Buffers:          402144 kB
Cached:          7725012 kB
SwapCached:        10240 kB
Active:          6123456 kB
`

func TestParseMeminfoMemTotal(t *testing.T) {
	info := ParseMeminfo(strings.NewReader("MemTotal:    8192000 kB\n"))
	assert.Equal(t, int64(8192000), info.MemTotalKB)
	assert.Equal(t, int64(8000), info.TotalMB())
}

func TestParseMeminfoFields(t *testing.T) {
	info := ParseMeminfo(strings.NewReader(sampleMeminfo))

	assert.Equal(t, Meminfo{
		MemTotalKB:     16318460,
		MemAvailableKB: 9876544,
		MemFreeKB:      1203312,
		BuffersKB:      402144,
		CachedKB:       7725012,
	}, info)
	assert.Equal(t, int64(9876544/1024), info.AvailableMB())
}

func TestParseMeminfoSwapCachedNotCached(t *testing.T) {
	info := ParseMeminfo(strings.NewReader("SwapCached:   5000 kB\n"))
	assert.Equal(t, int64(0), info.CachedKB)
}

func TestAvailableMBWithoutMemAvailable(t *testing.T) {
	// Kernels before 3.14 do not report MemAvailable.
	report := "MemTotal: 4096000 kB\nMemFree: 1024000 kB\nBuffers: 102400 kB\nCached: 921600 kB\n"
	info := ParseMeminfo(strings.NewReader(report))
	assert.Equal(t, int64((1024000+102400+921600)/1024), info.AvailableMB())
}

func TestAvailableMBNothingUsable(t *testing.T) {
	info := ParseMeminfo(strings.NewReader("Buffers: 1024 kB\nCached: 2048 kB\n"))
	assert.Equal(t, int64(0), info.AvailableMB())
}

func TestParseMeminfoMalformed(t *testing.T) {
	tests := []struct {
		name   string
		report string
	}{
		{"empty", ""},
		{"missing value", "MemTotal:\n"},
		{"not a number", "MemTotal: lots kB\n"},
		{"negative", "MemTotal: -5 kB\n"},
		{"indented key", "  MemTotal: 8192000 kB\n"},
		{"different key", "MemTotalish 8192000 kB\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseMeminfo(strings.NewReader(tt.report))
			assert.Equal(t, int64(0), info.TotalMB())
		})
	}
}

func TestParseMeminfoPartialFailure(t *testing.T) {
	// A malformed field does not prevent the others from parsing.
	report := "MemTotal: 8192000 kB\nMemAvailable: ??? kB\nMemFree: 2048000 kB\n"
	info := ParseMeminfo(strings.NewReader(report))
	assert.Equal(t, int64(8000), info.TotalMB())
	assert.Equal(t, int64(0), info.MemAvailableKB)
	assert.Equal(t, int64(2000), info.AvailableMB())
}

func TestParseMeminfoFirstMemTotalWins(t *testing.T) {
	report := "MemTotal: 1024000 kB\nMemTotal: 9999999 kB\n"
	assert.Equal(t, int64(1000), ParseMeminfo(strings.NewReader(report)).TotalMB())
}

func TestReadMeminfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte(sampleMeminfo), 0o644))

	info, ok := ReadMeminfo(path)
	require.True(t, ok)
	assert.Equal(t, int64(16318460), info.MemTotalKB)
	assert.Equal(t, int64(16318460/1024), meminfoTotalMB(path))
	assert.Equal(t, int64(9876544/1024), meminfoAvailableMB(path))
}

func TestReadMeminfoMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")

	_, ok := ReadMeminfo(path)
	assert.False(t, ok)
	assert.Equal(t, int64(0), meminfoTotalMB(path))
	assert.Equal(t, int64(0), meminfoAvailableMB(path))
}
