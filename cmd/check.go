package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snapptale/internal/ai"
)

func checkCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "check-ai",
		Short: "Verify that the Google AI API key works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := ai.CheckGemini(cmd.Context(), cfg.AI.Gemini); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Google AI API health check successful.")
			return nil
		},
	}
}
