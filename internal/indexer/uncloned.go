package indexer

import (
	"sort"
	"strings"

	"github.com/fjellvarden/peakview/internal/gitremote"
	"github.com/fjellvarden/peakview/internal/models"
)

// UnclonedRepos returns the repositories with no matching local folder:
// the complement of the entries' detected remotes within the repository
// set, matched case-insensitively on normalized owner/name. Sorted by last
// push descending; repositories that were never pushed sort last.
func UnclonedRepos(entries []models.FolderEntry, repos []models.RemoteRepository) []models.RemoteRepository {
	cloned := make(map[string]struct{})
	for _, entry := range entries {
		if entry.RemoteURL == "" {
			continue
		}
		if name, ok := gitremote.ToDisplayName(entry.RemoteURL); ok {
			cloned[strings.ToLower(name)] = struct{}{}
		}
	}

	var uncloned []models.RemoteRepository
	for _, repo := range repos {
		if _, ok := cloned[strings.ToLower(repo.FullName)]; !ok {
			uncloned = append(uncloned, repo)
		}
	}

	sort.SliceStable(uncloned, func(i, j int) bool {
		a, b := uncloned[i].PushedAt, uncloned[j].PushedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return uncloned
}
