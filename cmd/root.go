package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/logging"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "peakview",
	Short: "Project folder indexer for cloud-synced workspaces",
	Long: `peakview indexes the project folders under your watched roots, detects
cloud-sync placeholder folders that are not downloaded yet, reads git
remotes, and reconciles the local listing against your hosting account's
repository list.

Examples:
  peakview scan                # List watched folders with status
  peakview repos               # List account repositories with no local clone
  peakview refresh             # Re-detect status for every folder
  peakview connect <token>     # Store a hosting token
  peakview open <folder>       # Open a folder in your editor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(logging.Config{Level: logLevel})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", eris.ToString(err, true))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "warn", "Log verbosity (debug, info, warn, error)")
}
