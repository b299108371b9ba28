// Package humanfmt formats memory sizes and sync intervals for diagnostics
// and CLI output.
package humanfmt

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Binary (IEC) units for bytes.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

var units = []struct {
	size int64
	name string
}{
	{TiB, "TiB"},
	{GiB, "GiB"},
	{MiB, "MiB"},
	{KiB, "KiB"},
}

// Bytes formats a byte count using IEC binary units. Exact multiples of a
// unit print without decimals ("32 MiB"), others with two ("1.50 GiB").
func Bytes(b int64) string {
	if b < 0 {
		return strconv.FormatInt(b, 10) + " B"
	}
	for _, u := range units {
		if b < u.size {
			continue
		}
		if b%u.size == 0 {
			return fmt.Sprintf("%d %s", b/u.size, u.name)
		}
		return fmt.Sprintf("%.2f %s", float64(b)/float64(u.size), u.name)
	}
	return strconv.FormatInt(b, 10) + " B"
}

// MB formats a megabyte count, as reported by memory detection, using the
// largest fitting IEC unit.
func MB(mb int64) string {
	if mb > math.MaxInt64/MiB {
		return strconv.FormatInt(mb, 10) + " MiB"
	}
	return Bytes(mb * MiB)
}

// Millis formats a millisecond interval, e.g. "3s" or "1.5s".
func Millis(ms int64) string {
	return Duration(time.Duration(ms) * time.Millisecond)
}

// Duration formats d compactly: "1.5s", "450ms", "1m30s", "2h15m".
func Duration(d time.Duration) string {
	if d < 0 {
		return d.String()
	}

	switch {
	case d >= time.Hour:
		h := d / time.Hour
		m := (d % time.Hour) / time.Minute
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	case d >= time.Minute:
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	case d >= time.Second:
		return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
	case d >= time.Millisecond:
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
