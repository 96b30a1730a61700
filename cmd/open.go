package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/history"
	"github.com/fjellvarden/peakview/internal/launcher"
	"github.com/fjellvarden/peakview/internal/logging"
	"github.com/fjellvarden/peakview/internal/models"
)

var openInTerminal bool

var openCmd = &cobra.Command{
	Use:   "open <folder>",
	Short: "Open a watched folder in your editor or terminal",
	Long: `Open a folder from the watched roots in the configured editor, or in
the configured terminal with --terminal. Per-folder overrides from the
config file win over the global commands.

Examples:
  peakview open widgets
  peakview open widgets --terminal`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().BoolVarP(&openInTerminal, "terminal", "t", false, "Open in the terminal instead of the editor")
}

func runOpen(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return eris.Wrap(err, "failed to load configuration")
	}

	roots, err := config.GetWatchedRoots()
	if err != nil {
		return eris.Wrap(err, "failed to determine watched roots")
	}

	folders, err := openFolderCache()
	if err != nil {
		return err
	}
	repoCache, err := openRepoCache()
	if err != nil {
		return err
	}

	entries, err := newIndexer(folders, repoCache).Scan(cmd.Context(), roots)
	if err != nil {
		return eris.Wrap(err, "failed to scan watched folders")
	}

	target, err := matchEntry(entries, args[0])
	if err != nil {
		return err
	}
	if target.SyncStatus == models.StatusOnlineOnly {
		fmt.Printf("Note: %s is online-only; its content may download on first access\n", target.Name)
	}

	command := cfg.ResolveEditor(target.ID)
	if openInTerminal {
		command = cfg.ResolveTerminal(target.ID)
	}
	if command == "" {
		return eris.New("no command configured; set editor_command or terminal_command in the config file")
	}

	l := launcher.New(command)
	if !l.Available() {
		return eris.Errorf("command %q not found in PATH", command)
	}
	if err := l.Open(target.ID); err != nil {
		return eris.Wrapf(err, "failed to open %s", target.Name)
	}
	fmt.Printf("Opened %s with %s\n", target.Name, command)

	recordOpen(target, command)
	return nil
}

// matchEntry resolves a folder argument against the scanned entries, by
// exact path or case-insensitive name
func matchEntry(entries []models.FolderEntry, arg string) (models.FolderEntry, error) {
	for _, entry := range entries {
		if entry.ID == arg || strings.EqualFold(entry.Name, arg) {
			return entry, nil
		}
	}
	return models.FolderEntry{}, eris.Errorf("no folder named %q under the watched roots", arg)
}

// recordOpen logs the launch to the history database. History is advisory,
// a failure never fails the open.
func recordOpen(entry models.FolderEntry, command string) {
	dbPath, err := config.GetHistoryDBPath()
	if err != nil {
		logging.L().Warn("failed to resolve history database path", zap.Error(err))
		return
	}
	db, err := history.InitDB(dbPath)
	if err != nil {
		logging.L().Warn("failed to open history database", zap.Error(err))
		return
	}
	defer db.Close()

	event := &history.OpenEvent{
		FolderPath: entry.ID,
		FolderName: entry.Name,
		App:        command,
		OpenedAt:   time.Now(),
	}
	if err := history.RecordOpen(db, event); err != nil {
		logging.L().Warn("failed to record open event", zap.Error(err))
	}
}
