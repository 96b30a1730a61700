package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/gitremote"
	"github.com/fjellvarden/peakview/internal/models"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan watched folders and list their status",
	Long: `Scan the immediate subfolders of every watched root, detect their
cloud-sync status and git remote, and reconcile them against the cached
repository list.

The repository list is refreshed opportunistically before the scan when it
is stale and a token is stored; a failed refresh never blocks the listing.

Examples:
  peakview scan                # Table output
  peakview scan --json         # JSON output`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output in JSON format")
}

func runScan(cmd *cobra.Command, args []string) error {
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

	if repoCache.ShouldRefresh() {
		refreshRepos(cmd.Context(), newHostClient(repoCache), store)
	}

	entries, err := newIndexer(folders, repoCache).Scan(cmd.Context(), roots)
	if err != nil {
		return eris.Wrap(err, "failed to scan watched folders")
	}

	if scanJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return eris.Wrap(err, "failed to marshal folders to JSON")
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No folders found.")
		fmt.Println("Set watched roots in the config file or with PEAKVIEW_ROOTS.")
		return nil
	}

	fmt.Printf("%-30s %-12s %-15s %-40s\n", "FOLDER", "STATUS", "MODIFIED", "REPOSITORY")
	fmt.Println(strings.Repeat("-", 100))
	for _, entry := range entries {
		fmt.Printf("%-30s %-12s %-15s %-40s\n",
			truncate(entry.Name, 30),
			statusLabel(entry.SyncStatus),
			formatTimeAgo(entry.ModTime),
			truncate(repoLabel(entry), 40),
		)
	}
	return nil
}

// statusLabel renders a sync status for table output
func statusLabel(s models.SyncStatus) string {
	if s == models.StatusOnlineOnly {
		return "online-only"
	}
	return string(s)
}

// repoLabel renders the repository column: the display name of a linked
// remote, the raw URL for an unlinked one, or a dash
func repoLabel(entry models.FolderEntry) string {
	if entry.RemoteURL == "" {
		return "-"
	}
	if display, ok := gitremote.ToDisplayName(entry.RemoteURL); ok {
		if entry.Linked() {
			return display
		}
		return display + " (unlinked)"
	}
	return entry.RemoteURL
}
