package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands",
	}
	cmd.AddCommand(
		newAdminStatsCmd(a),
		newAdminUsersCmd(a),
		newAdminAlertsCmd(a),
		newAdminLocationsCmd(a),
		newAdminArticlesCmd(a),
	)
	return cmd
}

func newAdminStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if err := a.admin.FetchStatistics(cmd.Context()); err != nil {
				return fmt.Errorf("fetch statistics: %s", api.Message(err))
			}
			stats := a.admin.Statistics()
			fmt.Printf("👥 Users:     %d\n", stats.TotalUsers)
			fmt.Printf("🚨 Alerts:    %d\n", stats.TotalAlerts)
			fmt.Printf("📍 Locations: %d\n", stats.TotalLocations)
			fmt.Printf("📰 Articles:  %d\n", stats.TotalArticles)
			return nil
		},
	}
}

func newAdminUsersCmd(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if err := a.admin.FetchUsers(cmd.Context(), limit, offset); err != nil {
				return fmt.Errorf("fetch users: %s", api.Message(err))
			}
			users, page := a.admin.Users()
			for _, u := range users {
				state := "active"
				if !u.IsActive {
					state = "disabled"
				}
				fmt.Printf("#%-4d %-30s %-8s %s\n", u.ID, u.Email, u.Role, state)
			}
			if page != nil {
				fmt.Printf("(%d of %d)\n", len(users), page.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Toggle a user between active and disabled",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireAdmin(a); err != nil {
					return err
				}
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid user id %q", args[0])
				}
				if err := a.admin.ToggleUserStatus(cmd.Context(), id); err != nil {
					return fmt.Errorf("toggle user: %s", api.Message(err))
				}
				fmt.Printf("✅ User #%d toggled\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a user account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireAdmin(a); err != nil {
					return err
				}
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid user id %q", args[0])
				}
				if err := a.admin.DeleteUser(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete user: %s", api.Message(err))
				}
				fmt.Printf("🗑  User #%d deleted\n", id)
				return nil
			},
		},
	)
	return cmd
}

func newAdminAlertsCmd(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage flood alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if err := a.admin.FetchAlerts(cmd.Context(), limit, offset); err != nil {
				return fmt.Errorf("fetch alerts: %s", api.Message(err))
			}
			alerts, page := a.admin.Alerts()
			for _, alert := range alerts {
				active := " "
				if alert.IsActive {
					active = "A"
				}
				fmt.Printf("%s %s #%-4d loc=%-4d %s\n", active, levelIcon(alert.Level), alert.ID, alert.LocationID, alert.Title)
			}
			if page != nil {
				fmt.Printf("(%d of %d)\n", len(alerts), page.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	var input models.AlertInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if err := a.admin.CreateAlert(cmd.Context(), input); err != nil {
				return fmt.Errorf("create alert: %s", api.Message(err))
			}
			fmt.Printf("🚨 Alert published: %s\n", input.Title)
			return nil
		},
	}
	createCmd.Flags().IntVar(&input.LocationID, "location", 0, "location id")
	createCmd.Flags().StringVar(&input.Level, "level", models.AlertLevelWarning, "info, warning, danger or critical")
	createCmd.Flags().StringVar(&input.Title, "title", "", "alert title")
	createCmd.Flags().StringVar(&input.Description, "description", "", "alert description")
	createCmd.Flags().StringVar(&input.SafetyInstructions, "instructions", "", "safety instructions")
	createCmd.Flags().BoolVar(&input.IsActive, "active", true, "publish as active")
	createCmd.MarkFlagRequired("location")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("description")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid alert id %q", args[0])
			}
			if err := a.admin.DeleteAlert(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete alert: %s", api.Message(err))
			}
			fmt.Printf("🗑  Alert #%d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(createCmd, rmCmd)
	return cmd
}

func newAdminLocationsCmd(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage monitored locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if err := a.admin.FetchLocations(cmd.Context(), limit, offset); err != nil {
				return fmt.Errorf("fetch locations: %s", api.Message(err))
			}
			locations, page := a.admin.Locations()
			for _, loc := range locations {
				fmt.Printf("#%-4d %s, %s (%.4f, %.4f)\n", loc.ID, loc.Name, loc.Province, loc.Latitude, loc.Longitude)
			}
			if page != nil {
				fmt.Printf("(%d of %d)\n", len(locations), page.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	var input models.LocationInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a monitored location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if err := a.admin.CreateLocation(cmd.Context(), input); err != nil {
				return fmt.Errorf("create location: %s", api.Message(err))
			}
			fmt.Printf("📍 Location %s added\n", input.Name)
			return nil
		},
	}
	addCmd.Flags().StringVar(&input.Name, "name", "", "location name")
	addCmd.Flags().StringVar(&input.Province, "province", "", "province")
	addCmd.Flags().StringVar(&input.District, "district", "", "district")
	addCmd.Flags().Float64Var(&input.Latitude, "lat", 0, "latitude")
	addCmd.Flags().Float64Var(&input.Longitude, "lng", 0, "longitude")
	addCmd.Flags().BoolVar(&input.IsMonitoring, "monitoring", true, "enable monitoring")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("province")
	addCmd.MarkFlagRequired("lat")
	addCmd.MarkFlagRequired("lng")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a monitored location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid location id %q", args[0])
			}
			if err := a.admin.DeleteLocation(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete location: %s", api.Message(err))
			}
			fmt.Printf("🗑  Location #%d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(addCmd, rmCmd)
	return cmd
}

func newAdminArticlesCmd(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Manage articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if err := a.admin.FetchArticles(cmd.Context(), limit, offset); err != nil {
				return fmt.Errorf("fetch articles: %s", api.Message(err))
			}
			articles, page := a.admin.Articles()
			for _, article := range articles {
				published := "draft"
				if article.IsPublished {
					published = "published"
				}
				fmt.Printf("#%-4d %-30s [%s] %s\n", article.ID, article.Slug, published, article.Title)
			}
			if page != nil {
				fmt.Printf("(%d of %d)\n", len(articles), page.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	var input models.ArticleInput
	var contentFile, thumbnail string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Publish an article",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			if contentFile != "" {
				body, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("content file: %w", err)
				}
				input.Content = string(body)
			}

			var thumbName string
			var thumb *os.File
			if thumbnail != "" {
				f, err := os.Open(thumbnail)
				if err != nil {
					return fmt.Errorf("thumbnail: %w", err)
				}
				defer f.Close()
				thumbName, thumb = filepath.Base(thumbnail), f
			}

			if err := a.admin.CreateArticle(cmd.Context(), input, thumbName, readerOrNil(thumb)); err != nil {
				return fmt.Errorf("create article: %s", api.Message(err))
			}
			fmt.Printf("📰 Article published: %s\n", input.Title)
			return nil
		},
	}
	addCmd.Flags().StringVar(&input.Title, "title", "", "article title")
	addCmd.Flags().StringVar(&input.Summary, "summary", "", "short summary")
	addCmd.Flags().StringVar(&input.Category, "category", "news", "article category")
	addCmd.Flags().StringVar(&contentFile, "content-file", "", "path to the HTML body")
	addCmd.Flags().StringVar(&thumbnail, "thumbnail", "", "path to a thumbnail image")
	addCmd.Flags().BoolVar(&input.IsPublished, "publish", true, "publish immediately")
	addCmd.MarkFlagRequired("title")
	addCmd.MarkFlagRequired("content-file")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			if err := a.admin.DeleteArticle(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete article: %s", api.Message(err))
			}
			fmt.Printf("🗑  Article #%d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(addCmd, rmCmd)
	return cmd
}

// readerOrNil avoids a typed-nil io.Reader when no file was opened.
func readerOrNil(f *os.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}
