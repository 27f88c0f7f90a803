package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvasek/betterschedule/internal/domain"
)

type sessionStatus struct {
	State         domain.SessionState `json:"state"`
	Authenticated bool                `json:"authenticated"`
	LastError     string              `json:"last_error,omitempty"`
	FullName      string              `json:"full_name,omitempty"`
	TokenExpires  string              `json:"token_expires,omitempty"`
}

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show session state and token claims",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := app.manager.Current()

			status := sessionStatus{
				State:         session.State,
				Authenticated: session.Authenticated,
				LastError:     session.LastError,
			}
			if claims, err := app.manager.Claims(); err == nil {
				status.FullName = claims.FullName
				if claims.ExpiresAt != 0 {
					status.TokenExpires = time.Unix(claims.ExpiresAt, 0).Format(time.RFC3339)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "state: %s\n", status.State)
			_, _ = fmt.Fprintf(out, "authenticated: %t\n", status.Authenticated)
			if status.FullName != "" {
				_, _ = fmt.Fprintf(out, "name: %s\n", status.FullName)
			}
			if status.TokenExpires != "" {
				_, _ = fmt.Fprintf(out, "token expires: %s\n", status.TokenExpires)
			}
			if status.LastError != "" {
				_, _ = fmt.Fprintf(out, "last error: %s\n", status.LastError)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
