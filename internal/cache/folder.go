// Package cache holds the durable on-disk stores for folder detection
// results and the remote repository listing. Each store owns its file
// exclusively, loads it once at construction, and rewrites it whole on
// flush. Absent, empty, or corrupt files load as empty state; the caches
// are an optimization, never a source of truth.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fjellvarden/peakview/internal/logging"
	"github.com/fjellvarden/peakview/internal/models"
	"go.uber.org/zap"
)

// cacheSchemaVersion tags the persisted files so a future format change
// can be detected instead of mis-decoded
const cacheSchemaVersion = 1

// FolderStatusEntry is one persisted folder detection result
type FolderStatusEntry struct {
	Status        models.SyncStatus `json:"status"`
	LastChecked   time.Time         `json:"lastChecked"`
	FolderModDate time.Time         `json:"folderModDate"`
	RemoteURL     string            `json:"remoteUrl,omitempty"`
}

// folderIndexFile is the on-disk layout of the folder index cache
type folderIndexFile struct {
	Version int                          `json:"version"`
	Entries map[string]FolderStatusEntry `json:"entries"`
}

// FolderIndexCache is a path-keyed store of previously computed sync
// status and remote URL, invalidated by folder modification time.
// All operations are safe for concurrent use from scan workers.
type FolderIndexCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]FolderStatusEntry
	now     func() time.Time
}

// NewFolderIndexCache loads the cache file at path, falling back to an
// empty cache when the file is absent or unreadable
func NewFolderIndexCache(path string) *FolderIndexCache {
	c := &FolderIndexCache{
		path:    path,
		entries: make(map[string]FolderStatusEntry),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}

	var file folderIndexFile
	if err := json.Unmarshal(data, &file); err != nil || file.Version != cacheSchemaVersion {
		logging.L().Warn("discarding unreadable folder cache", zap.String("path", path))
		return c
	}

	if file.Entries != nil {
		c.entries = file.Entries
	}
	return c
}

// Lookup returns the cached entry for a folder path, or false if no entry
// exists or the folder has been modified since the entry was recorded
func (c *FolderIndexCache) Lookup(folderPath string, currentModTime time.Time) (FolderStatusEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[folderPath]
	if !ok {
		return FolderStatusEntry{}, false
	}

	// Any mtime later than the one recorded at check time invalidates
	if currentModTime.After(entry.FolderModDate) {
		return FolderStatusEntry{}, false
	}

	return entry, true
}

// Upsert replaces or inserts the entry for a folder path
func (c *FolderIndexCache) Upsert(folderPath string, status models.SyncStatus, modTime time.Time, remoteURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[folderPath] = FolderStatusEntry{
		Status:        status,
		LastChecked:   c.now(),
		FolderModDate: modTime,
		RemoteURL:     remoteURL,
	}
}

// Len returns the number of cached entries
func (c *FolderIndexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush serializes the full map to disk, overwriting the previous file.
// Write failures are swallowed; the next successful flush catches up.
func (c *FolderIndexCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	file := folderIndexFile{
		Version: cacheSchemaVersion,
		Entries: c.entries,
	}

	if err := writeFileAtomic(c.path, &file); err != nil {
		logging.L().Warn("failed to flush folder cache",
			zap.String("path", c.path), zap.Error(err))
	}
}

// Clear empties the cache and deletes the backing file
func (c *FolderIndexCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]FolderStatusEntry)
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		logging.L().Warn("failed to remove folder cache file",
			zap.String("path", c.path), zap.Error(err))
	}
}

// writeFileAtomic pretty-prints v as JSON and replaces path via a
// temp-file rename so a concurrent reader never sees a partial file
func writeFileAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name()) //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return err
	}

	return os.Rename(tmp.Name(), path)
}
