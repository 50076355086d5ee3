package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := a.auth.Login(cmd.Context(), models.LoginInput{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("login failed: %s", api.Message(err))
			}

			user := a.session.User()
			fmt.Printf("✅ Logged in as %s (%s)\n", user.FullName, user.Email)
			fmt.Printf("➡️  %s\n", route)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.auth.Logout()
			fmt.Println("👋 Logged out")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var input models.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Register(cmd.Context(), input); err != nil {
				return fmt.Errorf("registration failed: %s", api.Message(err))
			}
			fmt.Printf("✅ Account created for %s, now run: floodwatch login\n", input.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&input.FullName, "name", "n", "", "full name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&input.Address, "address", "", "home address")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			user := a.session.User()
			fmt.Printf("👤 %s <%s> role=%s\n", user.FullName, user.Email, user.Role)
			return nil
		},
	}
}
