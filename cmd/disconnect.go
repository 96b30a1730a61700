package cmd

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Remove the stored hosting token",
	Long: `Delete the stored hosting token and clear the cached repository list.
Local folder state is untouched.`,
	RunE: runDisconnect,
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	store, err := openTokenStore()
	if err != nil {
		return err
	}
	repoCache, err := openRepoCache()
	if err != nil {
		return err
	}

	if err := store.Delete(); err != nil {
		return eris.Wrap(err, "failed to delete token")
	}
	repoCache.Clear()

	fmt.Println("Disconnected.")
	return nil
}
