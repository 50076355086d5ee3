package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/sos"
)

func newSOSCmd(a *app) *cobra.Command {
	var lat, lng float64
	var message string

	cmd := &cobra.Command{
		Use:   "sos",
		Short: "Broadcast an emergency SOS with your position",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return fmt.Errorf("position required: pass --lat and --lng")
			}

			sender := sos.NewSender(a.client)
			locator := sos.FixedLocator(lat, lng)

			if err := sender.Send(cmd.Context(), locator, a.session.User(), message); err != nil {
				return err
			}
			fmt.Println("🆘 SOS sent, rescue services notified")
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "current latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "current longitude")
	cmd.Flags().StringVarP(&message, "message", "m", "", "optional message for rescuers")
	return cmd
}
