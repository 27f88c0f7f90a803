package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the session token with stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.manager.Refresh(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Token refreshed")
			return err
		},
	}
}
