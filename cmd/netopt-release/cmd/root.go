package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/netopt-project/netopt-release/internal/config"
	"github.com/netopt-project/netopt-release/internal/logger"
	"github.com/netopt-project/netopt-release/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel sets the minimum severity of log output.
	logLevel string

	// rootCmd represents the base command for the release pipeline.
	rootCmd = &cobra.Command{
		Use:   "netopt-release",
		Short: "Build and publish NetOpt releases.",
		Long: `Release pipeline for the NetOpt TCP optimization suite.

Compiles the desktop application and background service for every supported
platform, packages per-platform archives with a SHA-256 manifest, and
publishes them as a tagged release with bilingual release notes.

Run "build" first to produce the archives, then "publish" to upload them.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Apply the requested log level before any subcommand runs.
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				logger.Warnf(cmd.Context(), "Unknown log level %q, staying at %q", logLevel, logger.Level())
				return
			}

			logger.SetLevel(level)
		},
	}
)

// Execute runs the netopt-release CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions. The config
	// flag stays empty by default: a missing default file must not be fatal.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "",
			"path to configuration file (default "+config.DefaultConfigFilename+")")
	rootCmd.PersistentFlags().
		StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn, error or fatal")
}
