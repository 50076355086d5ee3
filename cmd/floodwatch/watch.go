package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/realtime"
)

// watch keeps a realtime subscription open and prints the inbox as pushes
// arrive, until interrupted.
func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay connected and stream incoming notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}

			bridge := realtime.NewBridge(
				a.cfg.PusherKey,
				a.cfg.PusherCluster,
				a.cfg.PusherHost,
				a.client,
				a.session,
				a.notifications,
				a.alerts,
			)

			if err := bridge.Connect(cmd.Context()); err != nil {
				if errors.Is(err, realtime.ErrRealtimeDisabled) {
					return fmt.Errorf("realtime disabled: set PUSHER_KEY to use watch")
				}
				return err
			}
			defer bridge.Close()

			fmt.Println("📡 Watching for alerts, Ctrl+C to stop")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			// The bridge refreshes the notification store on every push; poll
			// the store cheaply to surface what changed.
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			seen := a.notifications.UnreadCount()
			for {
				select {
				case <-quit:
					fmt.Println("\n👋 Watch stopped")
					return nil
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
					unread := a.notifications.UnreadCount()
					if unread == seen {
						continue
					}
					seen = unread
					for _, n := range a.notifications.Notifications() {
						if !n.IsRead {
							fmt.Printf("🔔 [%s] %s: %s\n", n.Type, n.Title, n.Message)
						}
					}
				}
			}
		},
	}
}
