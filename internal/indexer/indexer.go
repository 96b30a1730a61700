// Package indexer walks watched roots, merges cached and freshly detected
// folder state, reconciles entries against the remote repository cache,
// and produces the sorted listing consumed by presentation.
package indexer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fjellvarden/peakview/internal/cache"
	"github.com/fjellvarden/peakview/internal/cloudsync"
	"github.com/fjellvarden/peakview/internal/gitremote"
	"github.com/fjellvarden/peakview/internal/logging"
	"github.com/fjellvarden/peakview/internal/models"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// defaultWorkers bounds concurrent per-folder detection work
const defaultWorkers = 8

// Indexer orchestrates scanning. The caches are shared, externally
// constructed services; the indexer serializes nothing itself beyond what
// the caches already serialize.
type Indexer struct {
	classifier *cloudsync.Classifier
	parser     *gitremote.Parser
	folders    *cache.FolderIndexCache
	repos      *cache.RemoteRepositoryCache
	workers    int
}

// New creates an indexer over the given detectors and caches
func New(
	classifier *cloudsync.Classifier,
	parser *gitremote.Parser,
	folders *cache.FolderIndexCache,
	repos *cache.RemoteRepositoryCache,
) *Indexer {
	return &Indexer{
		classifier: classifier,
		parser:     parser,
		folders:    folders,
		repos:      repos,
		workers:    defaultWorkers,
	}
}

// scanJob is one folder to process, tagged with its enumeration position
// so the result order is stable regardless of worker scheduling
type scanJob struct {
	pos     int
	path    string
	name    string
	modTime time.Time
}

// Scan enumerates the immediate subdirectories of every root, reusing
// cached detection results where the folder is unmodified and re-running
// the detectors otherwise, then links entries against the cached remote
// repository list. The cache is flushed once per scan. Unreadable roots
// are skipped, not fatal; an empty roots list yields an empty result.
func (ix *Indexer) Scan(ctx context.Context, roots []string) ([]models.FolderEntry, error) {
	var jobs []scanJob

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			logging.L().Warn("skipping unreadable root", zap.String("root", root), zap.Error(err))
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}

			abs, err := filepath.Abs(filepath.Join(root, entry.Name()))
			if err != nil {
				continue
			}

			jobs = append(jobs, scanJob{
				pos:     len(jobs),
				path:    abs,
				name:    entry.Name(),
				modTime: info.ModTime(),
			})
		}
	}

	results := make([]models.FolderEntry, len(jobs))

	// Per-folder detection has no cross-folder dependency; parallelize it
	// across a bounded pool. Cache writes are serialized by the cache.
	jobCh := make(chan scanJob)
	var wg sync.WaitGroup

	workers := ix.workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results[job.pos] = ix.detect(job)
			}
		}()
	}

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			close(jobCh)
			wg.Wait()
			return nil, eris.Wrap(ctx.Err(), "scan cancelled")
		case jobCh <- job:
		}
	}
	close(jobCh)
	wg.Wait()

	// Link against a single consistent snapshot of the repository cache
	repos := ix.repos.Repos()
	for i := range results {
		ix.link(&results[i], repos)
	}

	ix.folders.Flush()
	sortEntries(results)

	logging.L().Debug("scan complete",
		zap.Int("folders", len(results)), zap.Int("repos", len(repos)))

	return results, nil
}

// detect produces the entry for one folder, consulting the folder cache
// first and running the detectors on a miss
func (ix *Indexer) detect(job scanJob) models.FolderEntry {
	entry := models.FolderEntry{
		ID:      job.path,
		Name:    job.name,
		ModTime: job.modTime,
	}

	if cached, ok := ix.folders.Lookup(job.path, job.modTime); ok {
		entry.SyncStatus = cached.Status
		entry.RemoteURL = cached.RemoteURL
		return entry
	}

	entry.SyncStatus = ix.classifier.Classify(job.path)
	if url, ok := ix.parser.DetectRemoteURL(job.path); ok {
		entry.RemoteURL = url
	}

	ix.folders.Upsert(job.path, entry.SyncStatus, job.modTime, entry.RemoteURL)
	return entry
}

// link sets the linked-repository fields on an entry when its remote URL
// matches a known repository's canonical name, case-insensitively
func (ix *Indexer) link(entry *models.FolderEntry, repos []models.RemoteRepository) {
	entry.LinkedRepoID = nil
	entry.LinkedPushedAt = nil

	if entry.RemoteURL == "" {
		return
	}

	name, ok := gitremote.ToDisplayName(entry.RemoteURL)
	if !ok {
		return
	}

	for _, repo := range repos {
		if strings.EqualFold(name, repo.FullName) {
			id := repo.ID
			entry.LinkedRepoID = &id
			entry.LinkedPushedAt = repo.PushedAt
			return
		}
	}
}

// RefreshAll re-runs detection for the given entries, bypassing the folder
// cache, and emits each updated entry only when its status, remote URL, or
// linked repository changed. Emission is incremental so a live view can
// update progressively; the loop checks ctx between entries so a new scan
// can supersede it. The cache is flushed once at the end regardless of how
// many entries changed.
func (ix *Indexer) RefreshAll(ctx context.Context, entries []models.FolderEntry, emit func(models.FolderEntry)) error {
	defer ix.folders.Flush()

	// One consistent repository snapshot for the whole refresh
	repos := ix.repos.Repos()

	for _, prev := range entries {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "refresh interrupted")
		}

		next := prev
		next.SyncStatus = ix.classifier.Classify(prev.ID)
		next.RemoteURL = ""
		if url, ok := ix.parser.DetectRemoteURL(prev.ID); ok {
			next.RemoteURL = url
		}

		ix.link(&next, repos)
		ix.folders.Upsert(next.ID, next.SyncStatus, next.ModTime, next.RemoteURL)

		if next.SyncStatus != prev.SyncStatus ||
			next.RemoteURL != prev.RemoteURL ||
			!sameRepoID(next.LinkedRepoID, prev.LinkedRepoID) {
			emit(next)
		}
	}

	return nil
}

// sortEntries applies the listing order: Local before OnlineOnly, then
// newest first, ties keeping enumeration order (stable sort)
func sortEntries(entries []models.FolderEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SyncStatus.Rank() != entries[j].SyncStatus.Rank() {
			return entries[i].SyncStatus.Rank() < entries[j].SyncStatus.Rank()
		}
		return entries[i].ModTime.After(entries[j].ModTime)
	})
}

func sameRepoID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
