package sysmem

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// VMStat holds the fields of the macOS vm_stat report used to estimate
// available memory.
type VMStat struct {
	PageSize      int64
	PagesFree     int64
	PagesInactive int64
}

// AvailableMB returns (free + inactive) pages in megabytes, or 0 when the
// page size is unknown.
func (v VMStat) AvailableMB() int64 {
	if v.PageSize <= 0 {
		return 0
	}
	return (v.PagesFree + v.PagesInactive) * v.PageSize / bytesPerMB
}

// vmstatFromCounters builds a VMStat from the kernel page counters, so the
// native query and the vm_stat report share one formula.
func vmstatFromCounters(free, inactive uint32, pageSize int) VMStat {
	return VMStat{
		PageSize:      int64(pageSize),
		PagesFree:     int64(free),
		PagesInactive: int64(inactive),
	}
}

// ParseVMStat reads vm_stat output:
//
//	Mach Virtual Memory Statistics: (page size of 16384 bytes)
//	Pages free:                               12345.
//	Pages inactive:                          678910.
//
// Missing or malformed fields are left at 0.
func ParseVMStat(r io.Reader) VMStat {
	var v VMStat
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "page size of"):
			v.PageSize = parsePageSize(line)
		case strings.HasPrefix(line, "Pages free:"):
			v.PagesFree = parsePageCount(line)
		case strings.HasPrefix(line, "Pages inactive:"):
			v.PagesInactive = parsePageCount(line)
		}
	}
	return v
}

func parsePageSize(line string) int64 {
	_, rest, ok := strings.Cut(line, "page size of")
	if !ok {
		return 0
	}
	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parsePageCount(line string) int64 {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimSpace(rest), "."), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
