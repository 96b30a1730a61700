// Package auth supplies the hosting API credential. The indexing core only
// ever sees the token value; storage is the CLI's concern.
package auth

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// TokenProvider supplies an optional bearer token
type TokenProvider interface {
	Token() (string, bool)
}

// FileTokenStore keeps the token in a mode-0600 file under the config
// directory. The PEAKVIEW_TOKEN environment variable takes precedence over
// the stored file.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store backed by the given file path
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Token returns the stored token, or false if none is available
func (s *FileTokenStore) Token() (string, bool) {
	if env := os.Getenv("PEAKVIEW_TOKEN"); env != "" {
		return env, true
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Save writes the token to disk, readable only by the owner
func (s *FileTokenStore) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return eris.Wrapf(err, "failed to write token file: %s", s.path)
	}
	return nil
}

// Delete removes the stored token; a missing file is not an error
func (s *FileTokenStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "failed to remove token file: %s", s.path)
	}
	return nil
}
