package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

func newArticlesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles [slug]",
		Short: "Read safety guides and news",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				var article models.Article
				if err := a.client.GetRaw(ctx, "/articles/"+args[0], &article); err != nil {
					return fmt.Errorf("fetch article: %s", api.Message(err))
				}
				fmt.Printf("📰 %s [%s]\n", article.Title, article.Category)
				if url := a.cfg.UploadURL(article.ThumbnailPath); url != "" {
					fmt.Printf("🖼  %s\n", url)
				}
				fmt.Println()
				if article.Summary != "" {
					fmt.Println(article.Summary)
					fmt.Println()
				}
				fmt.Println(article.Content)
				return nil
			}

			var articles []models.Article
			if err := a.client.GetRaw(ctx, "/articles", &articles); err != nil {
				return fmt.Errorf("fetch articles: %s", api.Message(err))
			}
			for _, article := range articles {
				fmt.Printf("📰 %-30s [%s] %s\n", article.Slug, article.Category, article.Title)
			}
			return nil
		},
	}
	return cmd
}
