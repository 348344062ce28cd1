package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storefront/internal/app"
	"storefront/internal/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cli carries what every subcommand needs once the root has run.
type cli struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Mobile phone storefront backed by the remote store API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			c.cfg = cfg
			c.logger = config.NewLogger(cfg.Logger)
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(c),
		newProductsCmd(c),
		newProductCmd(c),
		newCartCmd(c),
		newCheckoutCmd(c),
		newStorageCmd(c),
	)
	return root
}

// open builds the storefront for a one-shot command. Load-more pages are
// revealed immediately since nobody is watching the list scroll.
func (c *cli) open(ctx context.Context) (*app.App, error) {
	c.cfg.Listing.LoadMoreDelay = 0

	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise storefront: %w", err)
	}
	return a, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
