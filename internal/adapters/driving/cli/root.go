// Package cli implements the command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tzij-labs/tzij-cli/internal/logger"
)

// version is the build version, overridden at release time.
var version = "0.1.0-dev"

var (
	verbose     bool
	dataDir     string
	catalogPath string
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "tzij",
	Short: "Translation router for indigenous and low-resource languages",
	Long: `Tzij routes translation requests through a curated dictionary and an
ordered chain of external providers. The dictionary always answers
first; providers fall back in capability and quality order, gated by
per-provider rate limits and an encrypted credential vault.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() {
	defer closeServices()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default is $HOME/.tzij)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "provider catalog file (default is <data-dir>/catalog.toml)")
}
