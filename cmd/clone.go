package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/config"
	"github.com/fjellvarden/peakview/internal/gitclone"
	"github.com/fjellvarden/peakview/internal/models"
)

var (
	cloneHTTPS bool
	cloneDest  string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <repository-or-url>",
	Short: "Clone a repository into the first watched root",
	Long: `Clone a repository by remote URL, or by owner/name looked up in the
cached repository list. The destination defaults to the repository name
under the first watched root.

Examples:
  peakview clone acct/widgets
  peakview clone git@github.com:acct/widgets.git
  peakview clone acct/widgets --https
  peakview clone acct/widgets --dest ~/elsewhere/widgets`,
	Args: cobra.ExactArgs(1),
	RunE: runClone,
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().BoolVar(&cloneHTTPS, "https", false, "Clone over HTTPS instead of SSH")
	cloneCmd.Flags().StringVar(&cloneDest, "dest", "", "Destination directory")
}

func runClone(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	remoteURL, err := resolveCloneURL(args[0])
	if err != nil {
		return err
	}

	dest := cloneDest
	if dest == "" {
		roots, err := config.GetWatchedRoots()
		if err != nil {
			return eris.Wrap(err, "failed to determine watched roots")
		}
		if len(roots) == 0 {
			return eris.New("no watched roots configured and no --dest given")
		}
		dest, err = gitclone.DerivePath(roots[0], remoteURL)
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(dest); err == nil {
		return eris.Errorf("destination %s already exists", dest)
	}

	fmt.Printf("Cloning %s\n", remoteURL)
	fmt.Printf("  into %s\n", dest)
	err = gitclone.Clone(cmd.Context(), remoteURL, dest, func(pct int) {
		fmt.Printf("\rReceiving objects: %3d%%", pct)
	})
	fmt.Println()
	if err != nil {
		return eris.Wrap(err, "failed to clone repository")
	}

	fmt.Printf("Cloned into %s\n", dest)
	return nil
}

// resolveCloneURL maps the argument to a clonable URL: URLs pass through,
// anything else is looked up as owner/name in the cached repository list
func resolveCloneURL(arg string) (string, error) {
	if strings.Contains(arg, "://") || strings.Contains(arg, "@") {
		return arg, nil
	}

	repoCache, err := openRepoCache()
	if err != nil {
		return "", err
	}
	for _, repo := range repoCache.Repos() {
		if strings.EqualFold(repo.FullName, arg) {
			return cloneURLFor(repo), nil
		}
	}
	return "", eris.Errorf(
		"repository %q not found in the cached list; run: peakview refresh --repos", arg)
}

func cloneURLFor(repo models.RemoteRepository) string {
	if cloneHTTPS || repo.SSHURL == "" {
		return repo.CloneURL
	}
	return repo.SSHURL
}
