package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ming-flowbetter/palonaai-food-recommendation/internal/conversation"
)

func newSendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Send one message and print the assistant's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCore(cmd.Context(), loadConfig())
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if !c.controller.Send(cmd.Context(), text) {
				return fmt.Errorf("message rejected")
			}

			msgs := c.log.Messages()
			reply := msgs[len(msgs)-1]
			fmt.Println(reply.Text)
			if reply.Analysis != nil {
				printAnalysis(cmd, reply.Analysis)
			}
			if id := c.sessions.ID(); id != "" {
				fmt.Printf("session: %s\n", id)
			}
			return nil
		},
	}
}

func printAnalysis(cmd *cobra.Command, a *conversation.Analysis) {
	for intent, score := range a.IntentScores {
		cmd.Printf("intent  %-16s %.0f%%\n", intent, score*100)
	}
	for emotion, score := range a.EmotionScores {
		cmd.Printf("emotion %-16s %.0f%%\n", emotion, score*100)
	}
	for name, v := range a.Entities {
		cmd.Printf("entity  %-16s %s\n", name, v.String())
	}
}
