package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

func newLocationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List monitored locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.locations.FetchLocations(ctx); err != nil {
				return fmt.Errorf("fetch locations: %s", api.Message(err))
			}
			// Followed markers need the subscription cache, best effort for
			// anonymous sessions.
			if a.session.IsAuthenticated() {
				a.locations.FetchUserLocations(ctx)
			}

			for _, loc := range a.locations.Locations() {
				marker := "  "
				if a.locations.IsSubscribed(loc.ID) {
					marker = "⭐"
				}
				fmt.Printf("%s #%-4d %s, %s (%.4f, %.4f)\n",
					marker, loc.ID, loc.Name, loc.Province, loc.Latitude, loc.Longitude)
			}
			return nil
		},
	}
}

func newFollowCmd(a *app) *cobra.Command {
	var priority int
	var notes string

	cmd := &cobra.Command{
		Use:   "follow <location-id>",
		Short: "Follow a location to receive its alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid location id %q", args[0])
			}

			input := models.SubscribeLocationInput{
				LocationID: id,
				Priority:   priority,
				Notes:      notes,
			}
			if err := a.locations.Subscribe(cmd.Context(), input); err != nil {
				return fmt.Errorf("follow failed: %s", api.Message(err))
			}
			fmt.Printf("⭐ Now following location #%d\n", id)
			return nil
		},
	}

	cmd.Flags().IntVar(&priority, "priority", 0, "notification priority 0-10")
	cmd.Flags().StringVar(&notes, "notes", "", "personal note")
	return cmd
}

func newUnfollowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow <location-id>",
		Short: "Stop following a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid location id %q", args[0])
			}

			ctx := cmd.Context()
			if err := a.locations.FetchUserLocations(ctx); err != nil {
				return fmt.Errorf("fetch subscriptions: %s", api.Message(err))
			}
			subID, followed := a.locations.SubscribedIDs()[id]
			if !followed {
				return fmt.Errorf("location #%d is not followed", id)
			}

			if err := a.locations.Unsubscribe(ctx, subID); err != nil {
				return fmt.Errorf("unfollow failed: %s", api.Message(err))
			}
			fmt.Printf("💤 Unfollowed location #%d\n", id)
			return nil
		},
	}
}
