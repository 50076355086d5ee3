package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
	"floodwatch-client/internal/sos"
)

func statusIcon(status string) string {
	switch status {
	case models.SOSStatusResolved:
		return "✅"
	case models.SOSStatusProcessing:
		return "🚁"
	default:
		return "🆘"
	}
}

func printRescueList(requests []models.SOSRequest) {
	if len(requests) == 0 {
		fmt.Println("✅ No open SOS requests")
		return
	}
	for _, r := range requests {
		fmt.Printf("%s #%-4d [%s] %s %s (%.4f, %.4f) %s\n",
			statusIcon(r.Status), r.ID, r.Status, r.UserName, r.Phone,
			r.Latitude, r.Longitude, r.Message)
	}
}

func newRescueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescue",
		Short: "Operate the rescue dashboard (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}

			poller := sos.NewPoller(a.client, a.cfg.RescuePollDuration())
			if err := poller.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("fetch SOS list: %s", api.Message(err))
			}
			printRescueList(poller.Requests())
			return nil
		},
	}

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Poll the SOS list continuously",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}

			poller := sos.NewPoller(a.client, a.cfg.RescuePollDuration())
			poller.OnUpdate(func(requests []models.SOSRequest) {
				fmt.Print("\033[H\033[2J") // clear screen between polls
				fmt.Printf("🚨 Rescue dashboard, refreshing every %s\n\n", a.cfg.RescuePollDuration())
				printRescueList(requests)
			})

			go poller.Start(cmd.Context())
			defer poller.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	var statusCmd = &cobra.Command{
		Use:   "status <id> <pending|processing|resolved>",
		Short: "Move an SOS request along its lifecycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			status := args[1]
			switch status {
			case models.SOSStatusPending, models.SOSStatusProcessing, models.SOSStatusResolved:
			default:
				return fmt.Errorf("unknown status %q", status)
			}

			poller := sos.NewPoller(a.client, a.cfg.RescuePollDuration())
			if err := poller.UpdateStatus(cmd.Context(), id, status); err != nil {
				return fmt.Errorf("update status: %s", api.Message(err))
			}
			fmt.Printf("%s SOS #%d is now %s\n", statusIcon(status), id, status)
			return nil
		},
	}

	var rmCmd = &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an SOS request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}

			poller := sos.NewPoller(a.client, a.cfg.RescuePollDuration())
			if err := poller.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete request: %s", api.Message(err))
			}
			fmt.Printf("🗑  SOS #%d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(watchCmd, statusCmd, rmCmd)
	return cmd
}
