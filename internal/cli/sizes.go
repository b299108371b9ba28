package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const bytesPerMB = 1024 * 1024

// parseMB parses a memory size into megabytes. A bare integer is taken as
// megabytes ("8192"); anything else goes through humanize ("8GiB", "512 MB").
// flag names the option in error messages.
func parseMB(flag, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("--%s: empty size", flag)
	}
	if mb, err := strconv.ParseInt(s, 10, 64); err == nil {
		if mb < 0 {
			return 0, fmt.Errorf("--%s: negative size %q", flag, s)
		}
		return mb, nil
	}
	b, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", flag, err)
	}
	return int64(b / bytesPerMB), nil
}
