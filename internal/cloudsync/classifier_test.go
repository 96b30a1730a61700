package cloudsync

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fjellvarden/peakview/internal/models"
)

// countingInspector returns scripted states per file name and counts how
// many files were inspected
type countingInspector struct {
	mu     sync.Mutex
	states map[string]FileState
	errs   map[string]error
	calls  int
}

func (f *countingInspector) Inspect(path string) (FileState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return StateUnknown, err
	}
	if state, ok := f.states[name]; ok {
		return state, nil
	}
	return StateNotCloudBacked, nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		files  []string
		dirs   []string
		states map[string]FileState
		errs   map[string]error
		want   models.SyncStatus
	}{
		{
			name:  "plain local files",
			files: []string{"a.txt", "b.txt"},
			want:  models.StatusLocal,
		},
		{
			name:   "placeholder file",
			files:  []string{"a.txt", "b.txt"},
			states: map[string]FileState{"b.txt": StateNotDownloaded},
			want:   models.StatusOnlineOnly,
		},
		{
			name:   "fully downloaded cloud file",
			files:  []string{"a.txt"},
			states: map[string]FileState{"a.txt": StateCurrent},
			want:   models.StatusLocal,
		},
		{
			name:   "unknown state fails open",
			files:  []string{"a.txt"},
			states: map[string]FileState{"a.txt": StateUnknown},
			want:   models.StatusLocal,
		},
		{
			name:  "empty folder",
			files: nil,
			want:  models.StatusLocal,
		},
		{
			name:  "only subdirectories",
			dirs:  []string{"sub1", "sub2"},
			want:  models.StatusLocal,
		},
		{
			name:   "hidden placeholder is skipped",
			files:  []string{".hidden", "a.txt"},
			states: map[string]FileState{".hidden": StateNotDownloaded},
			want:   models.StatusLocal,
		},
		{
			name:  "inspect error treated as local",
			files: []string{"a.txt"},
			errs:  map[string]error{"a.txt": os.ErrPermission},
			want:  models.StatusLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)
			for _, sub := range tt.dirs {
				if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
					t.Fatalf("failed to create dir: %v", err)
				}
			}

			inspector := &countingInspector{states: tt.states, errs: tt.errs}
			got := NewClassifier(inspector).Classify(dir)
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifySamplingCap(t *testing.T) {
	dir := t.TempDir()

	// 100 files; the first three by enumeration order are local, a later
	// file is a placeholder that must never be reached
	states := make(map[string]FileState)
	var names []string
	for i := 0; i < 100; i++ {
		name := fmt.Sprintf("file%03d.txt", i)
		names = append(names, name)
		if i >= 3 {
			states[name] = StateNotDownloaded
		}
	}
	writeFiles(t, dir, names...)

	inspector := &countingInspector{states: states}
	got := NewClassifier(inspector).Classify(dir)

	if got != models.StatusLocal {
		t.Errorf("Classify() = %q, want %q", got, models.StatusLocal)
	}
	if inspector.calls > 3 {
		t.Errorf("inspected %d files, want at most 3", inspector.calls)
	}
}

func TestClassifyMissingDir(t *testing.T) {
	inspector := &countingInspector{}
	got := NewClassifier(inspector).Classify(filepath.Join(t.TempDir(), "does-not-exist"))
	if got != models.StatusLocal {
		t.Errorf("Classify() = %q, want %q", got, models.StatusLocal)
	}
	if inspector.calls != 0 {
		t.Errorf("inspected %d files, want 0", inspector.calls)
	}
}
