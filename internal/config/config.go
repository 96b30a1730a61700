package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	WatchedRoots    []string                  `yaml:"watched_roots"`    // Directories whose subfolders are indexed
	EditorCommand   string                    `yaml:"editor_command"`   // e.g. "code", "cursor"
	TerminalCommand string                    `yaml:"terminal_command"` // e.g. "alacritty", "gnome-terminal"
	APIBaseURL      string                    `yaml:"api_base_url"`     // Hosting API base URL
	FolderOverrides map[string]FolderOverride `yaml:"folder_overrides"` // Keyed by absolute folder path
}

// FolderOverride holds per-folder application picks that take precedence
// over the global defaults
type FolderOverride struct {
	EditorCommand   string `yaml:"editor_command"`
	TerminalCommand string `yaml:"terminal_command"`
}

// configFile represents the YAML config file structure
type configFile struct {
	Version         string                    `yaml:"version"`
	WatchedRoots    []string                  `yaml:"watched_roots"`
	EditorCommand   string                    `yaml:"editor_command"`
	TerminalCommand string                    `yaml:"terminal_command"`
	APIBaseURL      string                    `yaml:"api_base_url"`
	FolderOverrides map[string]FolderOverride `yaml:"folder_overrides"`
}

const (
	// CurrentConfigVersion is the current version of the config file format
	CurrentConfigVersion = "1"

	// DefaultAPIBaseURL is the hosting API used when none is configured
	DefaultAPIBaseURL = "https://api.github.com"

	// DefaultEditorCommand is used when no editor is configured
	DefaultEditorCommand = "code"
)

// GetConfigDir returns the OS-specific config directory for peakview
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", eris.Wrap(err, "failed to get user home directory")
		}
		baseDir = filepath.Join(home, "Library", "Application Support")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", eris.New("APPDATA environment variable not set")
		}
		baseDir = appData
	default: // linux and others
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = xdgConfigHome
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", eris.Wrap(err, "failed to get user home directory")
			}
			baseDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(baseDir, "peakview"), nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetFolderCachePath returns the full path to the folder index cache file
func GetFolderCachePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}
	return filepath.Join(configDir, "folder-cache.json"), nil
}

// GetRepoCachePath returns the full path to the repository cache file
func GetRepoCachePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}
	return filepath.Join(configDir, "repo-cache.json"), nil
}

// GetTokenPath returns the full path to the stored API token file
func GetTokenPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}
	return filepath.Join(configDir, "token"), nil
}

// GetHistoryDBPath returns the full path to the open-history SQLite database
func GetHistoryDBPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}
	return filepath.Join(configDir, "peakview.db"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return eris.Wrap(err, "failed to get config directory")
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create config directory: %s", configDir)
	}

	return nil
}

// GetWatchedRoots returns the watched root directories with configuration hierarchy
// Priority: PEAKVIEW_ROOTS env var (path-list separated) > config file > ~/Projects
func GetWatchedRoots() ([]string, error) {
	// 1. Environment variable (highest priority)
	if envRoots := os.Getenv("PEAKVIEW_ROOTS"); envRoots != "" {
		var roots []string
		for _, root := range strings.Split(envRoots, string(os.PathListSeparator)) {
			if root == "" {
				continue
			}
			expanded, err := expandHome(root)
			if err != nil {
				return nil, err
			}
			roots = append(roots, expanded)
		}
		return roots, nil
	}

	// 2. Config file
	config, err := loadConfigFile()
	if err == nil && len(config.WatchedRoots) > 0 {
		roots := make([]string, 0, len(config.WatchedRoots))
		for _, root := range config.WatchedRoots {
			expanded, err := expandHome(root)
			if err != nil {
				return nil, err
			}
			roots = append(roots, expanded)
		}
		return roots, nil
	}

	// 3. Default (lowest priority)
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, eris.Wrap(err, "failed to get user home directory")
	}

	return []string{filepath.Join(home, "Projects")}, nil
}

// GetAPIBaseURL returns the hosting API base URL with configuration hierarchy
func GetAPIBaseURL() string {
	// 1. Environment variable (highest priority)
	if envURL := os.Getenv("PEAKVIEW_API_URL"); envURL != "" {
		return envURL
	}

	// 2. Config file
	config, err := loadConfigFile()
	if err == nil && config.APIBaseURL != "" {
		return config.APIBaseURL
	}

	// 3. Default
	return DefaultAPIBaseURL
}

// LoadConfig loads the full configuration with all settings resolved
func LoadConfig() (*Config, error) {
	roots, err := GetWatchedRoots()
	if err != nil {
		return nil, eris.Wrap(err, "failed to get watched roots")
	}

	cf, err := loadConfigFile()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load config file")
	}

	editor := cf.EditorCommand
	if env := os.Getenv("PEAKVIEW_EDITOR"); env != "" {
		editor = env
	}
	if editor == "" {
		editor = DefaultEditorCommand
	}

	terminal := cf.TerminalCommand
	if env := os.Getenv("PEAKVIEW_TERMINAL"); env != "" {
		terminal = env
	}

	return &Config{
		WatchedRoots:    roots,
		EditorCommand:   editor,
		TerminalCommand: terminal,
		APIBaseURL:      GetAPIBaseURL(),
		FolderOverrides: cf.FolderOverrides,
	}, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return eris.Wrap(err, "failed to get config path")
	}

	if err := EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	cf := configFile{
		Version:         CurrentConfigVersion,
		WatchedRoots:    config.WatchedRoots,
		EditorCommand:   config.EditorCommand,
		TerminalCommand: config.TerminalCommand,
		APIBaseURL:      config.APIBaseURL,
		FolderOverrides: config.FolderOverrides,
	}

	data, err := yaml.Marshal(&cf)
	if err != nil {
		return eris.Wrap(err, "failed to marshal config to YAML")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return eris.Wrapf(err, "failed to write config file: %s", configPath)
	}

	return nil
}

// ResolveOverride resolves a two-level setting: a non-empty folder-specific
// value wins over the global default
func ResolveOverride(folderValue, globalValue string) string {
	if folderValue != "" {
		return folderValue
	}
	return globalValue
}

// ResolveEditor returns the editor command for a folder, preferring the
// folder-specific override
func (c *Config) ResolveEditor(folderPath string) string {
	return ResolveOverride(c.FolderOverrides[folderPath].EditorCommand, c.EditorCommand)
}

// ResolveTerminal returns the terminal command for a folder, preferring the
// folder-specific override
func (c *Config) ResolveTerminal(folderPath string) string {
	return ResolveOverride(c.FolderOverrides[folderPath].TerminalCommand, c.TerminalCommand)
}

// loadConfigFile loads the config file from disk (internal helper)
func loadConfigFile() (*configFile, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// If config file doesn't exist, return empty config (not an error)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &configFile{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read config file: %s", configPath)
	}

	var config configFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, eris.Wrapf(err, "failed to parse config file: %s", configPath)
	}

	return &config, nil
}

// expandHome expands ~ to the user's home directory in a path
func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get user home directory")
	}

	if len(path) == 1 {
		return home, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}
