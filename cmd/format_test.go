package cmd

import (
	"testing"
	"time"

	"github.com/fjellvarden/peakview/internal/models"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{name: "just now", time: now.Add(-30 * time.Second), expected: "just now"},
		{name: "1 minute ago", time: now.Add(-1 * time.Minute), expected: "1 min ago"},
		{name: "5 minutes ago", time: now.Add(-5 * time.Minute), expected: "5 mins ago"},
		{name: "1 hour ago", time: now.Add(-1 * time.Hour), expected: "1 hour ago"},
		{name: "3 hours ago", time: now.Add(-3 * time.Hour), expected: "3 hours ago"},
		{name: "1 day ago", time: now.Add(-24 * time.Hour), expected: "1 day ago"},
		{name: "3 days ago", time: now.Add(-3 * 24 * time.Hour), expected: "3 days ago"},
		{name: "2 weeks ago", time: now.Add(-14 * 24 * time.Hour), expected: "2 weeks ago"},
		{name: "3 months ago", time: now.Add(-90 * 24 * time.Hour), expected: "3 months ago"},
		{name: "2 years ago", time: now.Add(-2 * 365 * 24 * time.Hour), expected: "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatTimeAgo(tt.time)
			if result != tt.expected {
				t.Errorf("formatTimeAgo() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "shorter than max", input: "short", maxLen: 10, expected: "short"},
		{name: "equal to max", input: "exactly10!", maxLen: 10, expected: "exactly10!"},
		{name: "longer than max", input: "this is a very long string", maxLen: 10, expected: "this is..."},
		{name: "empty string", input: "", maxLen: 10, expected: ""},
		{name: "long repository name", input: "organization/very-long-repository-name", maxLen: 30, expected: "organization/very-long-repo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
			if len(result) > tt.maxLen {
				t.Errorf("truncate(%q, %d) result length %d exceeds maxLen", tt.input, tt.maxLen, len(result))
			}
		})
	}
}

func TestRepoLabel(t *testing.T) {
	repoID := int64(42)

	tests := []struct {
		name     string
		entry    models.FolderEntry
		expected string
	}{
		{
			name:     "no remote",
			entry:    models.FolderEntry{Name: "scratch"},
			expected: "-",
		},
		{
			name: "linked ssh remote",
			entry: models.FolderEntry{
				RemoteURL:    "git@github.com:acct/widgets.git",
				LinkedRepoID: &repoID,
			},
			expected: "acct/widgets",
		},
		{
			name: "unlinked https remote",
			entry: models.FolderEntry{
				RemoteURL: "https://github.com/acct/widgets.git",
			},
			expected: "acct/widgets (unlinked)",
		},
		{
			name: "unparseable remote",
			entry: models.FolderEntry{
				RemoteURL: "not a url",
			},
			expected: "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repoLabel(tt.entry); got != tt.expected {
				t.Errorf("repoLabel() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(models.StatusLocal); got != "local" {
		t.Errorf("statusLabel(local) = %q", got)
	}
	if got := statusLabel(models.StatusOnlineOnly); got != "online-only" {
		t.Errorf("statusLabel(onlineOnly) = %q", got)
	}
}
