package main

import (
	"fmt"

	"storefront/internal/checkout"
	"storefront/internal/model"

	"github.com/spf13/cobra"
)

func newCheckoutCmd(c *cli) *cobra.Command {
	var d model.CustomerDetails

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the persisted cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(a.Cart.Items()) == 0 {
				return model.ErrEmptyCart
			}

			form := checkout.Form{Details: d}
			resp, ok := form.Submit(ctx, a.Checkout)
			if !ok {
				printJSON(cmd.ErrOrStderr(), form.Errors)
				return fmt.Errorf("%w: %s", model.ErrValidation, form.Errors.Error())
			}

			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("checkout failed: %s", resp.Message)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&d.FirstName, "first-name", "", "Customer first name")
	f.StringVar(&d.LastName, "last-name", "", "Customer last name")
	f.StringVar(&d.Email, "email", "", "Customer email")
	f.StringVar(&d.Phone, "phone", "", "Customer phone (at least 9 digits)")
	f.StringVar(&d.Address, "address", "", "Delivery address")
	f.StringVar(&d.City, "city", "", "Delivery city")
	f.StringVar(&d.ZipCode, "zip-code", "", "Five-digit postal code")
	return cmd
}
