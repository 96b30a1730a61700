package cloudsync

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fjellvarden/peakview/internal/models"
)

// defaultSampleLimit caps how many files are inspected per folder.
// Classification is a heuristic proxy, not ground truth; inspecting a
// handful of files is enough to spot a placeholder pattern without
// paying for a full enumeration on every scan.
const defaultSampleLimit = 3

// Classifier decides whether a folder's content is Local or OnlineOnly
// by sampling a bounded number of its files
type Classifier struct {
	inspector   Inspector
	sampleLimit int
}

// NewClassifier creates a classifier using the given inspector
func NewClassifier(inspector Inspector) *Classifier {
	return &Classifier{
		inspector:   inspector,
		sampleLimit: defaultSampleLimit,
	}
}

// Classify inspects at most the first few files of a directory
// (non-recursive, hidden entries and subdirectories skipped) and returns
// OnlineOnly if any sampled file is a non-downloaded placeholder, Local
// otherwise. Folders with no sampled files (empty, all hidden, or all
// subdirectories) are Local by default. Read failures fail open toward
// Local so one bad folder never blocks a scan.
func (c *Classifier) Classify(dir string) models.SyncStatus {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return models.StatusLocal
	}

	sampled := 0
	for _, entry := range entries {
		if sampled >= c.sampleLimit {
			break
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		sampled++

		state, err := c.inspector.Inspect(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Treat an unreadable file as Local
			continue
		}

		if state == StateNotDownloaded {
			return models.StatusOnlineOnly
		}
	}

	return models.StatusLocal
}
