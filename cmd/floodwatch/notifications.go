package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
)

func newNotificationsCmd(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Show the notification inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if err := a.notifications.FetchNotifications(cmd.Context(), limit, offset); err != nil {
				return fmt.Errorf("fetch notifications: %s", api.Message(err))
			}

			items := a.notifications.Notifications()
			if len(items) == 0 {
				fmt.Println("📭 Inbox empty")
				return nil
			}
			fmt.Printf("📬 %d unread\n", a.notifications.UnreadCount())
			for _, n := range items {
				marker := "  "
				if !n.IsRead {
					marker = "● "
				}
				fmt.Printf("%s#%-4d [%s] %s: %s\n", marker, n.ID, n.Type, n.Title, n.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark one notification as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireAuth(a); err != nil {
					return err
				}
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid notification id %q", args[0])
				}
				if err := a.notifications.MarkAsRead(cmd.Context(), id); err != nil {
					return fmt.Errorf("mark read: %s", api.Message(err))
				}
				fmt.Printf("✅ Notification #%d read\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification as read",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireAuth(a); err != nil {
					return err
				}
				if err := a.notifications.MarkAllAsRead(cmd.Context()); err != nil {
					return fmt.Errorf("mark all read: %s", api.Message(err))
				}
				fmt.Println("✅ All notifications read")
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a notification",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireAuth(a); err != nil {
					return err
				}
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid notification id %q", args[0])
				}
				if err := a.notifications.DeleteNotification(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete notification: %s", api.Message(err))
				}
				fmt.Printf("🗑  Notification #%d deleted\n", id)
				return nil
			},
		},
	)
	return cmd
}
