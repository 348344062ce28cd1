package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStorageCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Storage backend maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify the configured storage backend can be written and read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.CheckStorage(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storage backend %q is healthy\n", c.cfg.Storage.Backend)
			return nil
		},
	})
	return cmd
}
