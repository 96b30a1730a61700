package models

import "time"

// SyncStatus describes whether a folder's content is fully present on disk
// or only exists as a cloud-sync placeholder.
type SyncStatus string

const (
	// StatusLocal means the folder's content is available on disk
	StatusLocal SyncStatus = "local"
	// StatusOnlineOnly means the folder's content is a cloud placeholder
	// that has not been downloaded yet
	StatusOnlineOnly SyncStatus = "onlineOnly"
)

// Rank returns the sort rank for a status: Local folders sort before
// OnlineOnly ones. Unknown values sort last.
func (s SyncStatus) Rank() int {
	switch s {
	case StatusLocal:
		return 0
	case StatusOnlineOnly:
		return 1
	default:
		return 2
	}
}

// FolderEntry represents one discovered subfolder of a watched root
type FolderEntry struct {
	ID             string     `json:"id"`   // Canonical absolute path (stable identity key)
	Name           string     `json:"name"` // Last path component
	ModTime        time.Time  `json:"mod_time"`
	SyncStatus     SyncStatus `json:"sync_status"`
	RemoteURL      string     `json:"remote_url,omitempty"`       // Git remote URL, empty if none detected
	LinkedRepoID   *int64     `json:"linked_repo_id,omitempty"`   // Set when the remote URL matches a known repository
	LinkedPushedAt *time.Time `json:"linked_pushed_at,omitempty"` // Copied from the matched repository
}

// Linked reports whether the entry was matched to a remote repository
// at the last reconciliation
func (e *FolderEntry) Linked() bool {
	return e.LinkedRepoID != nil
}

// RemoteRepository represents one repository from the hosting account.
// Values are immutable once fetched; the whole set is replaced on each
// successful fetch. JSON tags match the repository cache file format.
type RemoteRepository struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	FullName      string     `json:"fullName"` // "owner/name"
	HTMLURL       string     `json:"htmlUrl"`
	CloneURL      string     `json:"cloneUrl"`
	SSHURL        string     `json:"sshUrl"`
	Private       bool       `json:"private"`
	PushedAt      *time.Time `json:"pushedAt,omitempty"`
	DefaultBranch string     `json:"defaultBranch"`
}
