package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/archive"
)

func newHistoryCommand() *cobra.Command {
	var sessionID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the locally archived transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.ArchivePath == "" {
				return fmt.Errorf("archiving disabled (PALONA_ARCHIVE_PATH is empty)")
			}
			store, err := archive.Open(cfg.ArchivePath)
			if err != nil {
				return err
			}

			if sessionID == "" {
				sessions, err := newSessionStore(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				sessionID = sessions.ID()
			}

			recs, err := store.History(cmd.Context(), sessionID, limit)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				cmd.Printf("[%s] %-9s %s\n", rec.SentAt.Format("2006-01-02 15:04:05"), rec.Sender, rec.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session to show (default: the active one; empty shows all)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum records")
	return cmd
}
