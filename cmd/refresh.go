package cmd

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/models"
)

var refreshRepoList bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-detect status for every watched folder",
	Long: `Re-run cloud-sync and git remote detection for every folder under the
watched roots, ignoring cached results, and print the folders whose state
changed. The refresh runs sequentially and stops on interrupt.

With --repos, the hosting repository list is force-fetched first; a failed
fetch is an error in this mode.

Examples:
  peakview refresh
  peakview refresh --repos`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().
		BoolVar(&refreshRepoList, "repos", false, "Force-fetch the repository list before refreshing")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	roots, err := config.GetWatchedRoots()
	if err != nil {
		return eris.Wrap(err, "failed to determine watched roots")
	}

	folders, err := openFolderCache()
	if err != nil {
		return err
	}
	repoCache, err := openRepoCache()
	if err != nil {
		return err
	}
	store, err := openTokenStore()
	if err != nil {
		return err
	}

	if refreshRepoList {
		token, ok := store.Token()
		if !ok {
			return eris.New("no hosting token stored; run: peakview connect <token>")
		}
		repos, err := newHostClient(repoCache).FetchAll(cmd.Context(), token, true)
		if err != nil {
			return eris.Wrap(err, "failed to refresh repository list")
		}
		fmt.Printf("Fetched %d repositories\n", len(repos))
	}

	ix := newIndexer(folders, repoCache)
	entries, err := ix.Scan(cmd.Context(), roots)
	if err != nil {
		return eris.Wrap(err, "failed to scan watched folders")
	}

	changed := 0
	err = ix.RefreshAll(cmd.Context(), entries, func(entry models.FolderEntry) {
		changed++
		fmt.Printf("%-30s %-12s %s\n",
			truncate(entry.Name, 30),
			statusLabel(entry.SyncStatus),
			repoLabel(entry),
		)
	})
	if err != nil {
		return eris.Wrap(err, "refresh interrupted")
	}

	if changed == 0 {
		fmt.Printf("Refreshed %d folders, nothing changed\n", len(entries))
	} else {
		fmt.Printf("Refreshed %d folders, %d changed\n", len(entries), changed)
	}
	return nil
}
