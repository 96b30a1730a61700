package cmd

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/history"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened folders",
	Long: `List the most recently opened folders, newest first, at most one
entry per folder.

Examples:
  peakview recent
  peakview recent --limit 5`,
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "Maximum number of folders to list")
}

func runRecent(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	dbPath, err := config.GetHistoryDBPath()
	if err != nil {
		return eris.Wrap(err, "failed to resolve history database path")
	}
	db, err := history.InitDB(dbPath)
	if err != nil {
		return eris.Wrap(err, "failed to open history database")
	}
	defer db.Close()

	events, err := history.RecentOpens(db, recentLimit)
	if err != nil {
		return eris.Wrap(err, "failed to query open history")
	}

	if len(events) == 0 {
		fmt.Println("No folders opened yet.")
		fmt.Println("Open one with: peakview open <folder>")
		return nil
	}

	fmt.Printf("%-30s %-20s %-15s\n", "FOLDER", "APP", "OPENED")
	fmt.Println(strings.Repeat("-", 68))
	for _, event := range events {
		fmt.Printf("%-30s %-20s %-15s\n",
			truncate(event.FolderName, 30),
			truncate(event.App, 20),
			formatTimeAgo(event.OpenedAt),
		)
	}
	return nil
}
