package main

import (
	"context"
	"fmt"

	goslides "github.com/VantageDataChat/GoSlides"
	"github.com/spf13/cobra"
)

func (cli *CLI) newNormalizeCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Rewrite a deck in canonical form",
		Long: `normalize loads every slide and writes the deck back out. Unknown items
are dropped and malformed fields take their defaults.
Without --output the file is replaced in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cli.config()
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LockTimeout)
			defer cancel()

			in := goslides.NewStore(args[0])
			deck := goslides.NewDeck(cfg.deckOptions())
			if err := in.LoadDeck(ctx, deck); err != nil {
				return err
			}
			deck.ForceLoadAll()

			out := in
			if output != "" {
				out = goslides.NewStore(output)
			}
			if err := out.SaveDeck(ctx, deck); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d slides to %s\n", deck.Len(), out.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of replacing FILE")
	return cmd
}
