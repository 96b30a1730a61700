package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fjellvarden/peakview/internal/config"
)

var connectCmd = &cobra.Command{
	Use:   "connect <token>",
	Short: "Store a hosting account token",
	Long: `Validate a hosting API token and store it for repository listing.
The token is only saved after it validates against the account endpoint.

Pass "-" to read the token from stdin instead of the command line.

Examples:
  peakview connect ghp_xxxxxxxxxxxx
  some-secret-tool | peakview connect -`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	token := args[0]
	if token == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return eris.Wrap(err, "failed to read token from stdin")
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return eris.New("empty token")
	}

	if err := config.EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	repoCache, err := openRepoCache()
	if err != nil {
		return err
	}
	store, err := openTokenStore()
	if err != nil {
		return err
	}

	login, err := newHostClient(repoCache).FetchViewer(cmd.Context(), token)
	if err != nil {
		return eris.Wrap(err, "token validation failed")
	}

	if err := store.Save(token); err != nil {
		return eris.Wrap(err, "failed to store token")
	}
	repoCache.SetUsername(login)

	fmt.Printf("Connected as %s\n", login)
	fmt.Println("Fetch your repositories with: peakview refresh --repos")
	return nil
}
