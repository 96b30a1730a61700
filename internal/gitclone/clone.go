package gitclone

import (
	"bufio"
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/fjellvarden/peakview/internal/gitremote"
)

// ProgressFunc receives clone progress as a percentage in [0, 100].
type ProgressFunc func(percent int)

// DerivePath computes the destination directory for a clone: the repository
// name portion of the remote URL joined under root.
func DerivePath(root, remoteURL string) (string, error) {
	display, ok := gitremote.ToDisplayName(remoteURL)
	if !ok {
		return "", eris.Errorf("cannot derive a directory name from %q", remoteURL)
	}
	parts := strings.Split(display, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return "", eris.Errorf("cannot derive a directory name from %q", remoteURL)
	}
	return filepath.Join(root, name), nil
}

// Clone runs git clone with progress reporting. The progress callback is
// optional and is invoked from the reader goroutine as git emits
// "Receiving objects" lines on stderr.
func Clone(ctx context.Context, remoteURL, destPath string, progress ProgressFunc) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--progress", remoteURL, destPath)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return eris.Wrap(err, "failed to attach to git output")
	}
	if err := cmd.Start(); err != nil {
		return eris.Wrap(err, "failed to start git clone")
	}

	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanCloneLines)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if pct, ok := parseProgressLine(line); ok {
			if progress != nil {
				progress(pct)
			}
			continue
		}
		tail = append(tail, line)
		if len(tail) > 8 {
			tail = tail[1:]
		}
	}

	if err := cmd.Wait(); err != nil {
		return eris.Wrapf(err, "failed to clone repository: %s", strings.Join(tail, "; "))
	}
	return nil
}

// scanCloneLines splits on both newlines and carriage returns, since git
// redraws progress lines with \r.
func scanCloneLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := strings.IndexAny(string(data), "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// parseProgressLine extracts the percentage from a git progress line such as
// "Receiving objects:  42% (123/290)".
func parseProgressLine(line string) (int, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "Receiving objects:") {
		return 0, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "Receiving objects:"))
	end := strings.IndexByte(rest, '%')
	if end < 0 {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
	if err != nil || pct < 0 || pct > 100 {
		return 0, false
	}
	return pct, true
}
