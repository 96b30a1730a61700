package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/indexer"
)

var reposJSON bool

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List account repositories with no local clone",
	Long: `List repositories from the connected hosting account that have no
matching folder under any watched root, most recently pushed first.

Examples:
  peakview repos
  peakview repos --json`,
	RunE: runRepos,
}

func init() {
	rootCmd.AddCommand(reposCmd)
	reposCmd.Flags().BoolVar(&reposJSON, "json", false, "Output in JSON format")
}

func runRepos(cmd *cobra.Command, args []string) error {
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

	uncloned := indexer.UnclonedRepos(entries, repoCache.Repos())

	if reposJSON {
		data, err := json.MarshalIndent(uncloned, "", "  ")
		if err != nil {
			return eris.Wrap(err, "failed to marshal repositories to JSON")
		}
		fmt.Println(string(data))
		return nil
	}

	if len(uncloned) == 0 {
		if len(repoCache.Repos()) == 0 {
			fmt.Println("No repositories cached.")
			fmt.Println("Connect an account with: peakview connect <token>")
		} else {
			fmt.Println("All repositories are cloned locally.")
		}
		return nil
	}

	fmt.Printf("%-50s %-10s %-15s\n", "REPOSITORY", "VISIBILITY", "PUSHED")
	fmt.Println(strings.Repeat("-", 78))
	for _, repo := range uncloned {
		visibility := "public"
		if repo.Private {
			visibility = "private"
		}
		pushed := "never"
		if repo.PushedAt != nil {
			pushed = formatTimeAgo(*repo.PushedAt)
		}
		fmt.Printf("%-50s %-10s %-15s\n", truncate(repo.FullName, 50), visibility, pushed)
	}
	return nil
}
