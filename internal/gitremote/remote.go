// Package gitremote extracts the origin remote URL from a repository's
// config file and derives display and browser forms from it.
package gitremote

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fjellvarden/peakview/internal/logging"
	"go.uber.org/zap"
)

// Materializer requests a platform-level download of a cloud-placeholder
// file. Implementations only trigger the download; the parser polls for
// readability itself.
type Materializer interface {
	RequestDownload(path string) error
}

const (
	originSectionHeader = `[remote "origin"]`

	defaultPollInterval = 100 * time.Millisecond
	defaultPollAttempts = 30
)

// Parser detects git remote URLs from .git/config files
type Parser struct {
	materializer Materializer
	pollInterval time.Duration
	pollAttempts int
}

// NewParser creates a parser. The materializer may be nil, in which case
// placeholder config files are simply treated as absent.
func NewParser(materializer Materializer) *Parser {
	return &Parser{
		materializer: materializer,
		pollInterval: defaultPollInterval,
		pollAttempts: defaultPollAttempts,
	}
}

// DetectRemoteURL returns the origin remote URL configured for the
// repository at dir, or false if the directory is not a repository, has no
// origin remote, or the config file could not be read. It never returns an
// error: an unreadable config after bounded recovery is a normal outcome.
func (p *Parser) DetectRemoteURL(dir string) (string, bool) {
	configPath := filepath.Join(dir, ".git", "config")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false
		}

		// The config file may itself be a cloud placeholder; request a
		// download and poll for readability with a fixed cap so this
		// path is slow at worst, never unbounded.
		data, err = p.recoverPlaceholder(configPath)
		if err != nil {
			logging.L().Debug("git config unreadable after recovery",
				zap.String("path", configPath), zap.Error(err))
			return "", false
		}
	}

	return parseOriginURL(string(data))
}

// recoverPlaceholder asks the materializer to download the file and polls
// for readability, returning the content once readable or the last error
// after the attempt budget is spent
func (p *Parser) recoverPlaceholder(path string) ([]byte, error) {
	if p.materializer == nil {
		return nil, os.ErrPermission
	}

	if err := p.materializer.RequestDownload(path); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < p.pollAttempts; attempt++ {
		time.Sleep(p.pollInterval)

		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// parseOriginURL scans git config text for the url value inside the
// [remote "origin"] section. Any other section header ends the section;
// remotes other than origin are never considered.
func parseOriginURL(content string) (string, bool) {
	inOrigin := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") {
			inOrigin = trimmed == originSectionHeader
			continue
		}

		if !inOrigin || !strings.HasPrefix(trimmed, "url") {
			continue
		}

		idx := strings.Index(trimmed, "=")
		if idx == -1 {
			continue
		}

		value := strings.TrimSpace(trimmed[idx+1:])
		if value == "" {
			return "", false
		}
		return value, true
	}

	return "", false
}

// ToBrowserURL converts a git remote URL to a web URL suitable for opening
// in a browser. SSH shorthand (git@host:owner/repo.git) is rewritten to
// https form; a trailing .git is stripped.
// Returns false if the result is not a parseable URL.
func ToBrowserURL(remoteURL string) (string, bool) {
	candidate := remoteURL

	if rest, ok := splitSSHShorthand(remoteURL); ok {
		candidate = "https://" + strings.Replace(rest, ":", "/", 1)
	}

	candidate = strings.TrimSuffix(candidate, ".git")

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}

	return parsed.String(), true
}

// ToDisplayName normalizes both SSH-shorthand and https remote URL forms
// to a bare "owner/repo" name. Returns false if nothing remains after
// normalization.
func ToDisplayName(remoteURL string) (string, bool) {
	var path string

	if rest, ok := splitSSHShorthand(remoteURL); ok {
		// rest is "host:owner/repo[.git]"
		if idx := strings.Index(rest, ":"); idx != -1 {
			path = rest[idx+1:]
		}
	} else if parsed, err := url.Parse(remoteURL); err == nil && parsed.Host != "" {
		path = parsed.Path
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if path == "" {
		return "", false
	}

	return path, true
}

// splitSSHShorthand extracts the host:path remainder from a user@host:path
// SSH shorthand. URLs with an explicit scheme are not shorthand.
func splitSSHShorthand(remoteURL string) (rest string, ok bool) {
	if strings.Contains(remoteURL, "://") {
		return "", false
	}

	at := strings.Index(remoteURL, "@")
	if at == -1 {
		return "", false
	}

	rest = remoteURL[at+1:]
	if !strings.Contains(rest, ":") {
		return "", false
	}

	return rest, true
}
