package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fjellvarden/peakview/internal/cache"
	"github.com/fjellvarden/peakview/internal/cloudsync"
	"github.com/fjellvarden/peakview/internal/gitremote"
	"github.com/fjellvarden/peakview/internal/models"
)

// localInspector reports every file as plain local content
type localInspector struct{}

func (localInspector) Inspect(path string) (cloudsync.FileState, error) {
	return cloudsync.StateNotCloudBacked, nil
}

func newTestIndexer(t *testing.T) (*Indexer, *cache.FolderIndexCache, *cache.RemoteRepositoryCache) {
	t.Helper()
	dir := t.TempDir()
	folders := cache.NewFolderIndexCache(filepath.Join(dir, "folder-cache.json"))
	repos := cache.NewRemoteRepositoryCache(filepath.Join(dir, "repo-cache.json"))
	ix := New(cloudsync.NewClassifier(localInspector{}), gitremote.NewParser(nil), folders, repos)
	return ix, folders, repos
}

func makeProject(t *testing.T, root, name, remoteURL string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create project dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if remoteURL != "" {
		gitDir := filepath.Join(dir, ".git")
		if err := os.MkdirAll(gitDir, 0o755); err != nil {
			t.Fatalf("failed to create .git dir: %v", err)
		}
		config := "[remote \"origin\"]\n\turl = " + remoteURL + "\n"
		if err := os.WriteFile(filepath.Join(gitDir, "config"), []byte(config), 0o644); err != nil {
			t.Fatalf("failed to write git config: %v", err)
		}
	}
	return dir
}

func TestScanEndToEnd(t *testing.T) {
	root := t.TempDir()
	makeProject(t, root, "proj1", "")
	proj2 := makeProject(t, root, "proj2", "https://example.com/acct/proj2.git")

	ix, _, repoCache := newTestIndexer(t)
	pushed := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	repoCache.RecordFetch([]models.RemoteRepository{
		{ID: 42, Name: "proj2", FullName: "acct/proj2", PushedAt: &pushed, DefaultBranch: "main"},
	}, "tag")

	entries, err := ix.Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	byName := make(map[string]models.FolderEntry)
	for _, e := range entries {
		if e.SyncStatus != models.StatusLocal {
			t.Errorf("%s status = %q, want local", e.Name, e.SyncStatus)
		}
		byName[e.Name] = e
	}

	p1, p2 := byName["proj1"], byName["proj2"]
	if p1.RemoteURL != "" {
		t.Errorf("proj1 remoteURL = %q, want empty", p1.RemoteURL)
	}
	if p1.Linked() {
		t.Error("proj1 should not be linked")
	}
	if p2.RemoteURL != "https://example.com/acct/proj2.git" {
		t.Errorf("proj2 remoteURL = %q", p2.RemoteURL)
	}
	if !p2.Linked() || *p2.LinkedRepoID != 42 {
		t.Fatalf("proj2 linkedRepoID = %v, want 42", p2.LinkedRepoID)
	}
	if p2.LinkedPushedAt == nil || !p2.LinkedPushedAt.Equal(pushed) {
		t.Errorf("proj2 linkedPushedAt = %v, want %v", p2.LinkedPushedAt, pushed)
	}
	if p2.ID != proj2 {
		t.Errorf("proj2 id = %q, want %q", p2.ID, proj2)
	}

	if uncloned := UnclonedRepos(entries, repoCache.Repos()); len(uncloned) != 0 {
		t.Errorf("unclonedRepos = %v, want empty", uncloned)
	}
}

func TestScanUsesCache(t *testing.T) {
	root := t.TempDir()
	dir := makeProject(t, root, "proj", "")

	ix, folders, _ := newTestIndexer(t)

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}

	// Seed the cache with a different status than detection would yield;
	// a hit must reuse the cached value verbatim
	folders.Upsert(dir, models.StatusOnlineOnly, info.ModTime(), "git@host:acct/seeded.git")

	entries, err := ix.Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].SyncStatus != models.StatusOnlineOnly {
		t.Errorf("status = %q, want cached onlineOnly", entries[0].SyncStatus)
	}
	if entries[0].RemoteURL != "git@host:acct/seeded.git" {
		t.Errorf("remoteURL = %q, want cached value", entries[0].RemoteURL)
	}
}

func TestScanInvalidatedCacheEntryRedetects(t *testing.T) {
	root := t.TempDir()
	dir := makeProject(t, root, "proj", "")

	ix, folders, _ := newTestIndexer(t)

	// Entry recorded before the folder's current mtime: stale, must miss
	old := time.Now().Add(-24 * time.Hour)
	folders.Upsert(dir, models.StatusOnlineOnly, old, "git@host:acct/stale.git")

	entries, err := ix.Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if entries[0].SyncStatus != models.StatusLocal {
		t.Errorf("status = %q, want freshly detected local", entries[0].SyncStatus)
	}
	if entries[0].RemoteURL != "" {
		t.Errorf("remoteURL = %q, want freshly detected empty", entries[0].RemoteURL)
	}
}

func TestSortEntries(t *testing.T) {
	t5 := time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC)
	t10 := time.Date(2026, 1, 1, 0, 0, 10, 0, time.UTC)

	entries := []models.FolderEntry{
		{ID: "/a", SyncStatus: models.StatusLocal, ModTime: t5},
		{ID: "/b", SyncStatus: models.StatusOnlineOnly, ModTime: t10},
		{ID: "/c", SyncStatus: models.StatusLocal, ModTime: t5},
	}
	sortEntries(entries)

	got := []string{entries[0].ID, entries[1].ID, entries[2].ID}
	want := []string{"/a", "/c", "/b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v (local before onlineOnly, equal timestamps keep input order)", got, want)
		}
	}
}

func TestSortEntriesNewestFirst(t *testing.T) {
	entries := []models.FolderEntry{
		{ID: "/old", SyncStatus: models.StatusLocal, ModTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "/new", SyncStatus: models.StatusLocal, ModTime: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	sortEntries(entries)
	if entries[0].ID != "/new" {
		t.Errorf("first entry = %q, want newest", entries[0].ID)
	}
}

func TestUnclonedReposComplement(t *testing.T) {
	tOld := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tNew := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	repos := []models.RemoteRepository{
		{ID: 1, FullName: "acct/a", PushedAt: &tOld},
		{ID: 2, FullName: "acct/b", PushedAt: &tNew},
		{ID: 3, FullName: "acct/c", PushedAt: &tNew},
		{ID: 4, FullName: "acct/d"}, // never pushed
	}
	entries := []models.FolderEntry{
		{RemoteURL: "git@host:acct/a.git"},
		{RemoteURL: "https://host/ACCT/B.git"}, // case-insensitive match
		{RemoteURL: ""},
	}

	uncloned := UnclonedRepos(entries, repos)
	if len(uncloned) != 2 {
		t.Fatalf("got %d uncloned, want 2", len(uncloned))
	}
	if uncloned[0].ID != 3 {
		t.Errorf("first uncloned = %d, want most recently pushed", uncloned[0].ID)
	}
	if uncloned[1].ID != 4 {
		t.Errorf("last uncloned = %d, want never-pushed repo last", uncloned[1].ID)
	}
}

func TestRefreshAllEmitsOnlyChanged(t *testing.T) {
	root := t.TempDir()
	unchanged := makeProject(t, root, "same", "")
	changed := makeProject(t, root, "changed", "https://example.com/acct/changed.git")

	ix, _, _ := newTestIndexer(t)

	now := time.Now()
	entries := []models.FolderEntry{
		{ID: unchanged, Name: "same", ModTime: now, SyncStatus: models.StatusLocal},
		// Stale remote URL; fresh detection reads the real config
		{ID: changed, Name: "changed", ModTime: now, SyncStatus: models.StatusLocal, RemoteURL: "https://example.com/acct/old-name.git"},
	}

	var emitted []models.FolderEntry
	err := ix.RefreshAll(context.Background(), entries, func(e models.FolderEntry) {
		emitted = append(emitted, e)
	})
	if err != nil {
		t.Fatalf("RefreshAll() error: %v", err)
	}

	if len(emitted) != 1 {
		t.Fatalf("emitted %d entries, want 1", len(emitted))
	}
	if emitted[0].Name != "changed" {
		t.Errorf("emitted %q, want the changed entry", emitted[0].Name)
	}
	if emitted[0].RemoteURL != "https://example.com/acct/changed.git" {
		t.Errorf("emitted remoteURL = %q", emitted[0].RemoteURL)
	}
}

func TestRefreshAllInterruptible(t *testing.T) {
	ix, _, _ := newTestIndexer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var emitted int
	err := ix.RefreshAll(ctx, []models.FolderEntry{{ID: "/x"}, {ID: "/y"}}, func(models.FolderEntry) {
		emitted++
	})
	if err == nil {
		t.Error("RefreshAll() with cancelled context returned nil")
	}
	if emitted != 0 {
		t.Errorf("emitted %d entries after cancellation, want 0", emitted)
	}
}

func TestScanMissingRoot(t *testing.T) {
	ix, _, _ := newTestIndexer(t)
	entries, err := ix.Scan(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from missing root, want 0", len(entries))
	}
}
