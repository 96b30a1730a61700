package cmd

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/history"
)

var cleanHistoryDays int

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear cached folder and repository state",
	Long: `Delete the folder status cache and the repository list cache so the
next scan re-detects everything from scratch. The stored token and the
open history are kept.

With --history-days, open events older than the given number of days are
also pruned.

Examples:
  peakview clean
  peakview clean --history-days 90`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().
		IntVar(&cleanHistoryDays, "history-days", 0, "Also prune open history older than this many days")
}

func runClean(cmd *cobra.Command, args []string) error {
	folders, err := openFolderCache()
	if err != nil {
		return err
	}
	repoCache, err := openRepoCache()
	if err != nil {
		return err
	}

	folders.Clear()
	repoCache.Clear()
	fmt.Println("Cleared folder and repository caches.")

	if cleanHistoryDays > 0 {
		dbPath, err := config.GetHistoryDBPath()
		if err != nil {
			return eris.Wrap(err, "failed to resolve history database path")
		}
		db, err := history.InitDB(dbPath)
		if err != nil {
			return eris.Wrap(err, "failed to open history database")
		}
		defer db.Close()

		cutoff := time.Now().AddDate(0, 0, -cleanHistoryDays)
		pruned, err := history.PruneBefore(db, cutoff)
		if err != nil {
			return eris.Wrap(err, "failed to prune open history")
		}
		fmt.Printf("Pruned %d open events older than %d days.\n", pruned, cleanHistoryDays)
	}
	return nil
}
