//go:build unix

package cloudsync

import (
	"golang.org/x/sys/unix"
)

// UnixInspector detects cloud placeholders from stat metadata: providers
// that expose dataless files (iCloud Drive, OneDrive Files On-Demand over
// network filesystems) report a non-zero size with zero allocated blocks
// until the content is materialized.
type UnixInspector struct{}

// NewPlatformInspector returns the inspector for the current platform
func NewPlatformInspector() Inspector {
	return &UnixInspector{}
}

// Inspect stats the file and maps its allocation state to a FileState
func (i *UnixInspector) Inspect(path string) (FileState, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return StateUnknown, err
	}

	if st.Size > 0 && st.Blocks == 0 {
		return StateNotDownloaded, nil
	}

	return StateNotCloudBacked, nil
}
