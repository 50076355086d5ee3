package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

func newContactsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage personal emergency contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if err := a.contacts.FetchContacts(cmd.Context()); err != nil {
				return fmt.Errorf("fetch contacts: %s", api.Message(err))
			}

			contacts := a.contacts.Contacts()
			if len(contacts) == 0 {
				fmt.Println("No contacts yet, add one with: floodwatch contacts add")
				return nil
			}
			for _, c := range contacts {
				icon := "👤"
				if c.IsEmergency {
					icon = "🚨"
				}
				fmt.Printf("%s #%-4d %s %s", icon, c.ID, c.FullName, c.Phone)
				if c.Relationship != "" {
					fmt.Printf(" (%s)", c.Relationship)
				}
				if url := a.cfg.UploadURL(c.AvatarPath); url != "" {
					fmt.Printf(" %s", url)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.AddCommand(newContactAddCmd(a), newContactUpdateCmd(a), newContactRemoveCmd(a))
	return cmd
}

func contactFlags(cmd *cobra.Command, input *models.ContactInput, avatar *string) {
	cmd.Flags().StringVarP(&input.FullName, "name", "n", "", "contact full name")
	cmd.Flags().StringVarP(&input.Phone, "phone", "p", "", "contact phone")
	cmd.Flags().StringVar(&input.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&input.Relationship, "relationship", "", "family, friend, neighbor...")
	cmd.Flags().BoolVar(&input.IsEmergency, "emergency", false, "mark as emergency contact")
	cmd.Flags().StringVar(avatar, "avatar", "", "path to an avatar image")
}

func openAvatar(path string) (string, *os.File, error) {
	if path == "" {
		return "", nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("avatar: %w", err)
	}
	return filepath.Base(path), f, nil
}

func newContactAddCmd(a *app) *cobra.Command {
	var input models.ContactInput
	var avatarPath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an emergency contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}

			name, file, err := openAvatar(avatarPath)
			if err != nil {
				return err
			}
			if file != nil {
				defer file.Close()
			}

			if err := a.contacts.CreateContact(cmd.Context(), input, name, file); err != nil {
				return fmt.Errorf("create contact: %s", api.Message(err))
			}
			fmt.Printf("✅ Contact %s added\n", input.FullName)
			return nil
		},
	}

	contactFlags(cmd, &input, &avatarPath)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("phone")
	return cmd
}

func newContactUpdateCmd(a *app) *cobra.Command {
	var input models.ContactInput
	var avatarPath string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid contact id %q", args[0])
			}

			name, file, err := openAvatar(avatarPath)
			if err != nil {
				return err
			}
			if file != nil {
				defer file.Close()
			}

			if err := a.contacts.UpdateContact(cmd.Context(), id, input, name, file); err != nil {
				return fmt.Errorf("update contact: %s", api.Message(err))
			}
			fmt.Printf("✅ Contact #%d updated\n", id)
			return nil
		},
	}

	contactFlags(cmd, &input, &avatarPath)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("phone")
	return cmd
}

func newContactRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid contact id %q", args[0])
			}

			if err := a.contacts.DeleteContact(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete contact: %s", api.Message(err))
			}
			fmt.Printf("🗑  Contact #%d deleted\n", id)
			return nil
		},
	}
}
