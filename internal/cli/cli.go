// Package cli implements the command-line interface for memprobe.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eunmann/memprobe/internal/logctx"
)

// envPrefix namespaces environment overrides, e.g. MEMPROBE_ASSUME_MEMORY.
const envPrefix = "MEMPROBE"

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(viper.New(), stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "memprobe",
		Short: "Detect system memory and derive adaptive sync intervals",
		Long: `memprobe detects total physical memory and prints the sync configuration
a persistence layer would use on this host.

Flags can also be set through the environment with the MEMPROBE_ prefix:
  MEMPROBE_FORMAT=json
  MEMPROBE_ASSUME_MEMORY=8GiB
  MEMPROBE_LOW_THRESHOLD=4GiB`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(v, cmd); err != nil {
				return err
			}
			logger := logctx.New(logctx.Config{
				Debug: v.GetBool("debug"),
				Human: v.GetBool("log-human"),
				Out:   stderr,
			})
			logctx.SetDefaultLogger(logger)
			ctx := logctx.WithLogger(cmd.Context(), logger)
			cmd.SetContext(logctx.WithComponent(ctx, "memprobe"))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.PersistentFlags().Bool("log-human", false, "human-friendly log output instead of JSON")
	root.PersistentFlags().StringP("format", "f", formatText, "output format: text, json or yaml")

	root.AddCommand(
		newDetectCmd(v),
		newSyncCmd(v),
		newPlatformCmd(),
		newConnectivityCmd(v),
	)
	return root
}

// bindFlags makes every flag of cmd resolvable through v, with environment
// variables taking effect when the flag was not given.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}
