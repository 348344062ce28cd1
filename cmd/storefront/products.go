package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProductsCmd(c *cli) *cobra.Command {
	var (
		search  string
		pages   int
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered by brand or model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			load := a.Listing.Load
			if refresh {
				load = a.Listing.Refetch
			}
			if err := load(ctx); err != nil {
				return fmt.Errorf("failed to load products: %w", err)
			}

			a.Listing.SetSearch(search)
			for i := 1; i < pages; i++ {
				if !a.Listing.LoadMore() {
					break
				}
			}

			return printJSON(cmd.OutOrStdout(), a.Listing.View())
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive brand or model filter")
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "Number of pages to show")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the catalogue cache")
	return cmd
}

func newProductCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show the details of one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			product, err := a.Catalog.GetProduct(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), product)
		},
	}
}
