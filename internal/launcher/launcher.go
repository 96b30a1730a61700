// Package launcher opens folders in the user's editor or terminal.
package launcher

import (
	"os/exec"

	"github.com/rotisserie/eris"
)

// Launcher spawns one configured application
type Launcher struct {
	command string
}

// New creates a launcher for the given command (e.g. "code", "cursor",
// "alacritty")
func New(command string) *Launcher {
	return &Launcher{command: command}
}

// Command returns the configured command
func (l *Launcher) Command() string {
	return l.command
}

// Available checks if the command can be found in PATH
func (l *Launcher) Available() bool {
	_, err := exec.LookPath(l.command)
	return err == nil
}

// Open launches the application with the folder path as its argument. The
// process is detached; Open does not wait for it to exit.
func (l *Launcher) Open(path string) error {
	if l.command == "" {
		return eris.New("no application configured")
	}
	if !l.Available() {
		return eris.Errorf("command not found in PATH: %s", l.command)
	}

	cmd := exec.Command(l.command, path)
	if err := cmd.Start(); err != nil {
		return eris.Wrapf(err, "failed to launch %s for %s", l.command, path)
	}

	// Reap the child in the background so it never becomes a zombie
	go cmd.Wait() //nolint:errcheck

	return nil
}
