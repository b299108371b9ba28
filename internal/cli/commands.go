package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eunmann/memprobe/internal/logctx"
	"github.com/eunmann/memprobe/internal/platform"
	"github.com/eunmann/memprobe/pkg/humanfmt"
	"github.com/eunmann/memprobe/pkg/memprobe"
	"github.com/eunmann/memprobe/pkg/sysmem"
)

const assumeMemoryUsage = "evaluate as if the host had this much memory (e.g. 8GiB, or MB as a bare number)"

func newDetectCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Show detected total and available memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			probe, err := newProbe(cmd, v)
			if err != nil {
				return err
			}
			report := detectReport{
				MemorySnapshot:      probe.Snapshot(),
				AvailableMB:         probe.AvailableMemoryMB(),
				PlatformAvailableMB: probe.PlatformAvailableMemoryMB(),
			}
			return render(cmd.OutOrStdout(), v.GetString("format"), report)
		},
	}
	cmd.Flags().String("assume-memory", "", assumeMemoryUsage)
	return cmd
}

func newSyncCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Show the adaptive sync configuration for this host",
		Long: `Show the sync configuration derived from total memory.

Use --assume-memory to evaluate a different host, e.g. --assume-memory 2GiB.
An assumed size of 0 behaves like a failed detection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			probe, err := newProbe(cmd, v)
			if err != nil {
				return err
			}
			snap := probe.Snapshot()
			report := syncReport{
				TotalMB:           snap.TotalMB,
				Platform:          snap.Platform,
				Detected:          snap.Detected,
				SyncConfiguration: probe.SyncConfiguration(),
			}
			return render(cmd.OutOrStdout(), v.GetString("format"), report)
		},
	}
	cmd.Flags().String("assume-memory", "", assumeMemoryUsage)
	cmd.Flags().String("low-threshold", "", "total memory below which the low tier applies (default 4096 MB)")
	cmd.Flags().String("high-threshold", "", "total memory from which the high tier applies (default 16384 MB)")
	return cmd
}

func newPlatformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Print the platform this binary was built for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), memprobe.PlatformName())
			return err
		},
	}
}

func newConnectivityCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connectivity",
		Short: "Report whether a network interface is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			online := platform.HasNetworkConnectivity()
			logger := logctx.FromContext(cmd.Context())
			logger.Debug().Bool("online", online).Msg("checked network connectivity")
			if v.GetBool("beep") {
				platform.Beep()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), online)
			return err
		},
	}
	cmd.Flags().Bool("beep", false, "sound the terminal bell after the check")
	return cmd
}

// newProbe builds the probe for one CLI invocation from flags and
// environment.
func newProbe(cmd *cobra.Command, v *viper.Viper) (*memprobe.Probe, error) {
	opts := []memprobe.Option{memprobe.WithLogger(logctx.FromContext(cmd.Context()))}

	if s := v.GetString("assume-memory"); s != "" {
		mb, err := parseMB("assume-memory", s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, memprobe.WithDetector(sysmem.Static{TotalMB: mb, AvailableMB: mb}))
	}

	th := memprobe.DefaultThresholds()
	if s := v.GetString("low-threshold"); s != "" {
		mb, err := parseMB("low-threshold", s)
		if err != nil {
			return nil, err
		}
		th.LowMB = mb
	}
	if s := v.GetString("high-threshold"); s != "" {
		mb, err := parseMB("high-threshold", s)
		if err != nil {
			return nil, err
		}
		th.HighMB = mb
	}
	if !th.Valid() {
		return nil, fmt.Errorf("--low-threshold (%d MB) must be positive and below --high-threshold (%d MB)", th.LowMB, th.HighMB)
	}
	opts = append(opts, memprobe.WithThresholds(th))

	return memprobe.New(opts...), nil
}

type detectReport struct {
	memprobe.MemorySnapshot `yaml:",inline"`

	AvailableMB         int64 `json:"available_mb" yaml:"available_mb"`
	PlatformAvailableMB int64 `json:"platform_available_mb" yaml:"platform_available_mb"`
}

func (r detectReport) writeText(w io.Writer) error {
	source := "detected"
	if !r.Detected {
		source = "fallback"
	}
	_, err := fmt.Fprintf(w,
		"Platform:            %s\nTotal memory:        %d MB (%s, %s)\nAvailable memory:    %d MB\nPlatform available:  %d MB\n",
		r.Platform,
		r.TotalMB, humanfmt.MB(r.TotalMB), source,
		r.AvailableMB,
		r.PlatformAvailableMB,
	)
	return err
}

type syncReport struct {
	TotalMB  int64  `json:"total_mb" yaml:"total_mb"`
	Platform string `json:"platform" yaml:"platform"`
	Detected bool   `json:"detected" yaml:"detected"`

	memprobe.SyncConfiguration `yaml:",inline"`
}

func (r syncReport) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Memory tier:         %s\nSync interval:       %s (%d bytes)\nTime interval:       %s (%d ms)\nPlatform:            %s\n",
		r.MemoryTier,
		humanfmt.Bytes(r.SyncIntervalBytes), r.SyncIntervalBytes,
		humanfmt.Millis(r.SyncIntervalMs), r.SyncIntervalMs,
		r.Platform,
	)
	return err
}
