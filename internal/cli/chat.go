package cli

import (
	"github.com/spf13/cobra"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/tui"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCore(cmd.Context(), loadConfig())
			if err != nil {
				return err
			}
			return tui.NewChat(c.controller, c.gate, c.metrics).Run()
		},
	}
}
