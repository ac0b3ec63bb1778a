package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netopt-project/netopt-release/internal/service/publish"
)

// publishCmd tags the repository and uploads the built artifacts.
var publishCmd = &cobra.Command{
	Use:   "publish [version]",
	Short: "Tag the repository and publish the built artifacts.",
	Long: `Creates the annotated release tag (skipping it when it already exists),
pushes it to the configured remote and publishes every built archive together
with the checksum manifest and bilingual release notes.

Requires an authenticated gh CLI and at least one archive produced by the
build command. The version defaults to 1.0.0 when omitted.`,
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

		options := &publish.Options{
			ConfigPath: configPath,
			Version:    releaseVersion,
		}

		return publish.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(publishCmd)
}
