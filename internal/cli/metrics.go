package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print quality metrics of the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCore(cmd.Context(), loadConfig())
			if err != nil {
				return err
			}
			if !c.sessions.Active() {
				fmt.Println("no active session")
				return nil
			}
			if err := c.metrics.Refresh(cmd.Context()); err != nil {
				return err
			}
			m, ok := c.metrics.Current()
			if !ok {
				fmt.Println("no metrics available")
				return nil
			}
			cmd.Printf("session             %s\n", m.SessionID)
			cmd.Printf("total messages      %d\n", m.TotalMessages)
			cmd.Printf("satisfaction        %.1f%%\n", m.UserSatisfactionScore*100)
			cmd.Printf("avg response time   %.2fs\n", m.AverageResponseTimeSeconds)
			cmd.Printf("intent accuracy     %.1f%%\n", m.IntentAccuracy*100)
			cmd.Printf("emotion accuracy    %.1f%%\n", m.EmotionRecognitionAccuracy*100)
			return nil
		},
	}
}
