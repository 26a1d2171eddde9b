package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/api"
)

func newMenuCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "menu [query]",
		Short: "List or search the menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)

			var items []api.MenuItem
			if len(args) > 0 {
				res, err := client.SearchMenu(cmd.Context(), strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				items = res.Results
			} else {
				all, err := client.Menu(cmd.Context())
				if err != nil {
					return err
				}
				items = all
			}

			for _, it := range items {
				cmd.Printf("%-6s %-10s ¥%-6.0f %s — %s\n", it.ID, it.Category, it.Price, it.Name, it.Description)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results for a search")
	return cmd
}
