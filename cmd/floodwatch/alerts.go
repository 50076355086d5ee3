package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/geo"
	"floodwatch-client/internal/models"
)

func levelIcon(level string) string {
	switch level {
	case models.AlertLevelCritical:
		return "🟣"
	case models.AlertLevelDanger:
		return "🔴"
	case models.AlertLevelWarning:
		return "🟠"
	default:
		return "🔵"
	}
}

func printAlertLine(a models.Alert) {
	location := ""
	if a.Location != nil {
		location = " @ " + a.Location.Name
	}
	fmt.Printf("%s #%-4d [%s] %s%s\n", levelIcon(a.Level), a.ID, a.Level, a.Title, location)
}

func newAlertsCmd(a *app) *cobra.Command {
	var limit, offset, locationID int
	var mine bool

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List active flood alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var err error
			switch {
			case mine:
				if err = requireAuth(a); err != nil {
					return err
				}
				err = a.alerts.FetchUserAlerts(ctx)
			case locationID > 0:
				err = a.alerts.FetchAlertsByLocation(ctx, locationID)
			default:
				err = a.alerts.FetchAlerts(ctx, limit, offset)
			}
			if err != nil {
				return fmt.Errorf("fetch alerts: %s", api.Message(err))
			}

			alerts := a.alerts.Alerts()
			if len(alerts) == 0 {
				fmt.Println("✅ No active alerts")
				return nil
			}
			for _, alert := range alerts {
				printAlertLine(alert)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	cmd.Flags().IntVar(&locationID, "location", 0, "only alerts for this location id")
	cmd.Flags().BoolVar(&mine, "mine", false, "only alerts for followed locations")
	return cmd
}

func newAlertCmd(a *app) *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "alert <id>",
		Short: "Show one alert with shelters and emergency contacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid alert id %q", args[0])
			}

			if err := a.alerts.FetchAlertByID(cmd.Context(), id); err != nil {
				return fmt.Errorf("fetch alert: %s", api.Message(err))
			}
			alert := a.alerts.Current()
			if alert == nil {
				return fmt.Errorf("alert %d not found", id)
			}

			printAlertLine(*alert)
			fmt.Println(alert.Description)
			if alert.WaterLevel != nil {
				fmt.Printf("🌊 Water level: %.2f m\n", *alert.WaterLevel)
			}
			if alert.Rainfall != nil {
				fmt.Printf("🌧  Rainfall: %.1f mm\n", *alert.Rainfall)
			}
			if alert.SafetyInstructions != "" {
				fmt.Printf("⚠️  %s\n", alert.SafetyInstructions)
			}

			for _, c := range alert.EmergencyContacts {
				fmt.Printf("📞 %s: %s\n", c.Name, c.Phone)
			}

			if len(alert.Shelters) > 0 {
				fmt.Println("🏠 Shelters:")
				for _, sh := range alert.Shelters {
					fmt.Printf("   • %s, %s (capacity %d)\n", sh.Name, sh.Address, sh.Capacity)
				}
				if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
					if nearest, dist := geo.NearestShelter(lat, lng, alert.Shelters); nearest != nil {
						fmt.Printf("📍 Nearest shelter: %s (%.1f km away)\n", nearest.Name, dist)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "your latitude, for the nearest-shelter hint")
	cmd.Flags().Float64Var(&lng, "lng", 0, "your longitude")
	return cmd
}
