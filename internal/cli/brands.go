package cli

import (
	"github.com/spf13/cobra"
)

func newBrandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "Brand catalog commands",
	}

	cmd.AddCommand(newBrandsListCmd())
	cmd.AddCommand(newBrandsGetCmd())
	cmd.AddCommand(newBrandsRefreshCmd())

	return cmd
}

func newBrandsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all brands",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BrandsResult

			if err := client.Get("/api/v1/brands", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBrandsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <brand-id>",
		Short: "Show a brand and its missions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Brand

			if err := client.Get("/api/v1/brands/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBrandsRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Invalidate the cached catalog so the next read refetches",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/brands/invalidate", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Catalog invalidated")
			return nil
		},
	}
}
