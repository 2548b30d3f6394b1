package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Points balance and history commands",
	}

	cmd.AddCommand(newPointsBalanceCmd())
	cmd.AddCommand(newPointsAddCmd())
	cmd.AddCommand(newPointsHistoryCmd())

	return cmd
}

func newPointsBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current points balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BalanceResult

			if err := client.Get("/api/v1/points", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPointsAddCmd() *cobra.Command {
	var amount int64
	var reason string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Award points for a completed activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount <= 0 {
				return fmt.Errorf("--amount must be a positive integer")
			}
			if reason == "" {
				return fmt.Errorf("--reason is required")
			}

			req := map[string]any{"amount": amount, "reason": reason}
			var result BalanceResult

			if err := client.Post("/api/v1/points/add", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "Points to add (required, positive)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the award (required)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newPointsHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the points ledger, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/points/history"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			var result HistoryResult
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries to return")

	return cmd
}
