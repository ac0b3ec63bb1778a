package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netopt-project/netopt-release/internal/service/build"
)

var (
	// jobs caps how many targets are built concurrently.
	jobs int

	// buildCmd compiles and packages release archives for every target.
	buildCmd = &cobra.Command{
		Use:   "build [version]",
		Short: "Build and package release archives for all targets.",
		Long: `Compiles the GUI and service binaries for every supported target,
packages each platform into its archive format and writes a SHA-256 manifest.

Targets whose toolchain is unavailable are skipped with a warning, and a
failing build never aborts the remaining targets. The version defaults to
1.0.0 when omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use version argument if provided, otherwise rely on the default.
			var releaseVersion string
			if len(args) > 0 {
				releaseVersion = args[0]
			}

			options := &build.Options{
				ConfigPath: configPath,
				Version:    releaseVersion,
				Jobs:       jobs,
			}

			return build.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(buildCmd)

	// Setup command flags with consistent naming and descriptions.
	buildCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "targets to build in parallel, 0 uses the configured value")
}
