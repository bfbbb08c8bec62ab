package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

func setupAdminCmd() *cobra.Command {
	var email, password, username string
	cmd := &cobra.Command{
		Use:   "setup-admin",
		Short: "Create the first admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				err := a.Sessions.SetupAdmin(ctx, ports.CreateUserInput{
					Email:    email,
					Password: password,
					Username: username,
					Role:     domain.RoleAdmin,
				})
				if errors.Is(err, domain.ErrAdminExists) {
					fmt.Println("an admin account already exists; nothing to do")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Printf("admin %s created\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (at least 6 characters)")
	cmd.Flags().StringVar(&username, "username", "", "display name (defaults to the email's local part)")
	return cmd
}
