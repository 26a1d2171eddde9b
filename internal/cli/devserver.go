package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/devserver"
)

func newDevServerCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stub backend implementing the assistant API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if addr == "" {
				addr = cfg.DevServerAddr
			}
			slog.Info("devserver listening", "addr", addr)
			return devserver.New().Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: PALONA_DEVSERVER_ADDR or :8000)")
	return cmd
}
