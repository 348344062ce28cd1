package main

import (
	"fmt"
	"strconv"

	"storefront/internal/app"
	"storefront/internal/handler"
	"storefront/internal/model"

	"github.com/spf13/cobra"
)

func newCartCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the persisted cart",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show cart lines and totals",
			Args:  cobra.NoArgs,
			RunE: c.withCart(func(cmd *cobra.Command, a *app.App, args []string) error {
				return nil
			}),
		},
		newCartAddCmd(c),
		&cobra.Command{
			Use:   "update <line-id> <quantity>",
			Short: "Set the quantity of a cart line",
			Args:  cobra.ExactArgs(2),
			RunE: c.withCart(func(cmd *cobra.Command, a *app.App, args []string) error {
				qty, err := strconv.Atoi(args[1])
				if err != nil || qty < 1 {
					return model.ErrInvalidQuantity
				}
				if !hasLine(a, args[0]) {
					return fmt.Errorf("%w: %s", model.ErrItemNotFound, args[0])
				}
				a.Cart.UpdateQuantity(args[0], qty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove <line-id>",
			Short: "Remove a cart line",
			Args:  cobra.ExactArgs(1),
			RunE: c.withCart(func(cmd *cobra.Command, a *app.App, args []string) error {
				if !hasLine(a, args[0]) {
					return fmt.Errorf("%w: %s", model.ErrItemNotFound, args[0])
				}
				a.Cart.RemoveFromCart(args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: c.withCart(func(cmd *cobra.Command, a *app.App, args []string) error {
				a.Cart.ClearCart()
				return nil
			}),
		},
	)
	return cmd
}

func newCartAddCmd(c *cli) *cobra.Command {
	var color, storage, quantity int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product variant to the cart through the remote store",
		Args:  cobra.ExactArgs(1),
		RunE: c.withCart(func(cmd *cobra.Command, a *app.App, args []string) error {
			if quantity < 1 {
				return model.ErrInvalidQuantity
			}
			if err := a.Catalog.CheckVariant(cmd.Context(), args[0], color, storage); err != nil {
				return err
			}
			req := model.AddToCartRequest{
				ID:          args[0],
				ColorCode:   color,
				StorageCode: storage,
				Quantity:    &quantity,
			}
			_, err := a.Cart.AddProductToCart(cmd.Context(), req)
			return err
		}),
	}

	cmd.Flags().IntVar(&color, "color", 0, "Colour option code")
	cmd.Flags().IntVar(&storage, "storage", 0, "Storage option code")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Units to add")
	cmd.MarkFlagRequired("color")
	cmd.MarkFlagRequired("storage")
	return cmd
}

// withCart opens the storefront, runs fn and prints the resulting cart.
func (c *cli) withCart(fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := c.open(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := fn(cmd, a, args); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cartView(a))
	}
}

func cartView(a *app.App) handler.CartResponse {
	return handler.NewCartResponse(a.Cart.State(), a.Totals.Current())
}

func hasLine(a *app.App, id string) bool {
	for _, item := range a.Cart.Items() {
		if item.ID == id {
			return true
		}
	}
	return false
}
