package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with username and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				read, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = read
			}

			if err := app.manager.Login(cmd.Context(), username, password); err != nil {
				return err
			}

			session := app.manager.Current()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in (%s)\n", session.State)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted on stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is empty")
	}

	return password, nil
}
