package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and manage the account profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}

			user, err := a.auth.FetchProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch profile: %s", api.Message(err))
			}

			fmt.Printf("👤 %s <%s> role=%s\n", user.FullName, user.Email, user.Role)
			if user.Phone != "" {
				fmt.Printf("📞 %s\n", user.Phone)
			}
			if user.Address != "" {
				fmt.Printf("🏠 %s\n", user.Address)
			}
			if url := a.cfg.UploadURL(user.AvatarPath); url != "" {
				fmt.Printf("🖼  %s\n", url)
			}
			return nil
		},
	}

	cmd.AddCommand(newProfileUpdateCmd(a), newProfilePasswordCmd(a))
	return cmd
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var input models.ProfileInput
	var avatarPath string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update name, phone, address or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}

			// Unchanged fields keep their current values.
			if input.FullName == "" {
				input.FullName = a.session.User().FullName
			}

			name, file, err := openAvatar(avatarPath)
			if err != nil {
				return err
			}
			if file != nil {
				defer file.Close()
			}

			user, err := a.auth.UpdateProfile(cmd.Context(), input, name, file)
			if err != nil {
				return fmt.Errorf("update profile: %s", api.Message(err))
			}
			fmt.Printf("✅ Profile updated for %s\n", user.FullName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.FullName, "name", "n", "", "full name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&input.Address, "address", "", "home address")
	cmd.Flags().StringVar(&avatarPath, "avatar", "", "path to an avatar image")
	return cmd
}

func newProfilePasswordCmd(a *app) *cobra.Command {
	var input models.ChangePasswordInput

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}

			if err := a.auth.ChangePassword(cmd.Context(), input); err != nil {
				return fmt.Errorf("change password: %s", api.Message(err))
			}
			fmt.Println("🔒 Password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&input.OldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&input.NewPassword, "new", "", "new password")
	cmd.MarkFlagRequired("old")
	cmd.MarkFlagRequired("new")
	return cmd
}
