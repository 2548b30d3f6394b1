package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plays",
		Short: "Daily game play commands",
	}

	cmd.AddCommand(newPlaysTodayCmd())
	cmd.AddCommand(newPlaysRecordCmd())
	cmd.AddCommand(newPlaysAllowanceCmd())

	return cmd
}

func newPlaysTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's game plays",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TodayResult

			if err := client.Get("/api/v1/plays/today", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlaysRecordCmd() *cobra.Command {
	var gameType, brandID string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the start of a game play",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameType == "" {
				return fmt.Errorf("--game is required")
			}

			req := map[string]string{"game_type": gameType}
			if brandID != "" {
				req["brand_id"] = brandID
			}

			var result TodayResult
			if err := client.Post("/api/v1/plays", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameType, "game", "", "Game type: word_guess, grid_match, projectile_timing (required)")
	cmd.Flags().StringVar(&brandID, "brand", "", "Brand the game belongs to")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

func newPlaysAllowanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allowance",
		Short: "Check whether another play is allowed today",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AllowanceResult

			if err := client.Get("/api/v1/plays/allowance", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
