package sysmem

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// MeminfoPath is the Linux textual memory report.
const MeminfoPath = "/proc/meminfo"

// Meminfo holds the /proc/meminfo fields used for memory detection, in kB.
// A field that is absent or malformed in the report is left at 0.
type Meminfo struct {
	MemTotalKB     int64
	MemAvailableKB int64
	MemFreeKB      int64
	BuffersKB      int64
	CachedKB       int64
}

// TotalMB returns MemTotal in megabytes, truncated.
func (m Meminfo) TotalMB() int64 {
	return m.MemTotalKB / 1024
}

// AvailableMB returns MemAvailable in megabytes when the kernel reports it
// (3.14+). Otherwise it approximates with MemFree+Buffers+Cached, and
// returns 0 when MemFree is missing too.
func (m Meminfo) AvailableMB() int64 {
	if m.MemAvailableKB > 0 {
		return m.MemAvailableKB / 1024
	}
	if m.MemFreeKB > 0 {
		return (m.MemFreeKB + m.BuffersKB + m.CachedKB) / 1024
	}
	return 0
}

// ParseMeminfo reads a /proc/meminfo style report: one "Key:" per line
// followed by a whitespace-separated value and unit. Keys match on exact line
// prefix, so "Cached:" does not match "SwapCached:". Only the first line for
// each key is considered.
func ParseMeminfo(r io.Reader) Meminfo {
	var info Meminfo
	fields := []struct {
		prefix string
		dst    *int64
	}{
		{"MemTotal:", &info.MemTotalKB},
		{"MemAvailable:", &info.MemAvailableKB},
		{"MemFree:", &info.MemFreeKB},
		{"Buffers:", &info.BuffersKB},
		{"Cached:", &info.CachedKB},
	}
	seen := make([]bool, len(fields))

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		for i, f := range fields {
			if seen[i] || !strings.HasPrefix(line, f.prefix) {
				continue
			}
			seen[i] = true
			*f.dst = parseKBField(line)
			break
		}
	}
	// A read error leaves whatever was parsed so far.
	return info
}

// parseKBField returns the second whitespace-delimited token of line as an
// integer, or 0 if it is missing or not a non-negative number.
func parseKBField(line string) int64 {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return 0
	}
	v, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ReadMeminfo parses the report at path. ok is false if the file could not
// be opened.
func ReadMeminfo(path string) (info Meminfo, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return Meminfo{}, false
	}
	defer f.Close()
	return ParseMeminfo(f), true
}

// meminfoTotalMB is the textual fallback for total memory.
func meminfoTotalMB(path string) int64 {
	info, ok := ReadMeminfo(path)
	if !ok {
		return 0
	}
	return info.TotalMB()
}

func meminfoAvailableMB(path string) int64 {
	info, ok := ReadMeminfo(path)
	if !ok {
		return 0
	}
	return info.AvailableMB()
}
