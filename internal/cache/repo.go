package cache

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/fjellvarden/peakview/internal/logging"
	"github.com/fjellvarden/peakview/internal/models"
	"go.uber.org/zap"
)

// MinRefreshInterval is the minimum elapsed time between non-forced
// repository fetches
const MinRefreshInterval = 5 * time.Minute

// repoCacheFile is the on-disk layout of the repository cache
type repoCacheFile struct {
	Version     int                       `json:"version"`
	LastFetched *time.Time                `json:"lastFetched"`
	ETag        string                    `json:"etag,omitempty"`
	Username    string                    `json:"username,omitempty"`
	Repos       []models.RemoteRepository `json:"repos"`
}

// RemoteRepositoryCache is the persistent record of the hosting account's
// repository list, with conditional-fetch metadata. Safe for concurrent
// use; the backing file is rewritten atomically on every update.
type RemoteRepositoryCache struct {
	mu   sync.Mutex
	path string
	rec  repoCacheFile
	now  func() time.Time
}

// NewRemoteRepositoryCache loads the cache file at path, falling back to
// an empty record when the file is absent or unreadable
func NewRemoteRepositoryCache(path string) *RemoteRepositoryCache {
	c := &RemoteRepositoryCache{
		path: path,
		rec:  repoCacheFile{Version: cacheSchemaVersion},
		now:  time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}

	var file repoCacheFile
	if err := json.Unmarshal(data, &file); err != nil || file.Version != cacheSchemaVersion {
		logging.L().Warn("discarding unreadable repository cache", zap.String("path", path))
		return c
	}

	c.rec = file
	return c
}

// ShouldRefresh reports whether a non-forced fetch should hit the network:
// true if never fetched, or the minimum refresh interval has elapsed
func (c *RemoteRepositoryCache) ShouldRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rec.LastFetched == nil {
		return true
	}
	return c.now().Sub(*c.rec.LastFetched) > MinRefreshInterval
}

// Repos returns a copy of the cached repository list
func (c *RemoteRepositoryCache) Repos() []models.RemoteRepository {
	c.mu.Lock()
	defer c.mu.Unlock()

	repos := make([]models.RemoteRepository, len(c.rec.Repos))
	copy(repos, c.rec.Repos)
	return repos
}

// ETag returns the stored revision tag from the last successful fetch
func (c *RemoteRepositoryCache) ETag() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.ETag
}

// Username returns the account login the cached list belongs to
func (c *RemoteRepositoryCache) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.Username
}

// LastFetched returns the time of the last successful fetch, or nil
func (c *RemoteRepositoryCache) LastFetched() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rec.LastFetched == nil {
		return nil
	}
	t := *c.rec.LastFetched
	return &t
}

// SetUsername records the account login and flushes
func (c *RemoteRepositoryCache) SetUsername(login string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rec.Username = login
	c.flushLocked()
}

// RecordFetch replaces the full repository list and revision tag, stamps
// the fetch time, and flushes
func (c *RemoteRepositoryCache) RecordFetch(repos []models.RemoteRepository, etag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.rec.Repos = repos
	c.rec.ETag = etag
	c.rec.LastFetched = &now
	c.flushLocked()
}

// RecordNotModified refreshes only the fetch time, leaving the repository
// list untouched. Used when a conditional fetch reports no change.
func (c *RemoteRepositoryCache) RecordNotModified() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.rec.LastFetched = &now
	c.flushLocked()
}

// Clear wipes the record and deletes the backing file entirely. Used on
// account disconnect; no residual data remains.
func (c *RemoteRepositoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rec = repoCacheFile{Version: cacheSchemaVersion}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		logging.L().Warn("failed to remove repository cache file",
			zap.String("path", c.path), zap.Error(err))
	}
}

// flushLocked writes the record to disk; callers must hold the mutex.
// Write failures are swallowed.
func (c *RemoteRepositoryCache) flushLocked() {
	if err := writeFileAtomic(c.path, &c.rec); err != nil {
		logging.L().Warn("failed to flush repository cache",
			zap.String("path", c.path), zap.Error(err))
	}
}
