package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/harvestboard/pkg/auth"
)

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Sheets",
		Long: `Discard any cached token and run the Google authorization flow again.

Place the OAuth client credentials.json in ~/.config/harvestboard first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Reset(); err != nil {
				return err
			}
			if _, err := auth.GetClient(cmd.Context(), auth.SheetsScopes); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			path, _ := auth.TokenPath()
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved to %s\n", path)
			return nil
		},
	}
}
