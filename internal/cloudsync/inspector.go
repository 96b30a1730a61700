// Package cloudsync classifies folders by whether their content is fully
// present on disk or only exists as cloud-sync placeholders.
package cloudsync

// FileState describes a single file's cloud-placeholder state
type FileState int

const (
	// StateNotCloudBacked means the file carries no cloud-placeholder
	// attribute at all; it is a plain local file
	StateNotCloudBacked FileState = iota
	// StateCurrent means the file is cloud-backed and fully downloaded
	StateCurrent
	// StateNotDownloaded means the file is a placeholder whose content
	// has not been materialized
	StateNotDownloaded
	// StateUnknown means the provider reported a state we don't recognize
	StateUnknown
)

// Inspector reports the cloud-placeholder state of a single file.
// Implementations must be safe for concurrent use.
type Inspector interface {
	Inspect(path string) (FileState, error)
}
