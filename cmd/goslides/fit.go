package main

import (
	"fmt"
	"text/tabwriter"

	goslides "github.com/VantageDataChat/GoSlides"
	"github.com/spf13/cobra"
)

func (cli *CLI) newFitCommand() *cobra.Command {
	var overflowOnly bool
	cmd := &cobra.Command{
		Use:   "fit FILE",
		Short: "Show the auto-fitted font size of every text item",
		Long: `fit loads every slide at the configured surface size and prints the
authored and effective font size of each text item. Items whose text had to
shrink are marked with "*".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cli.config()
			deck, err := goslides.OpenDeck(args[0], cfg.deckOptions())
			if err != nil {
				return err
			}
			deck.ForceLoadAll()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Surface %gx%g, ratio %.4f\n\n", cfg.SurfaceWidth, cfg.SurfaceHeight, goslides.NewTransform(cfg.SurfaceWidth, cfg.SurfaceHeight).Ratio())

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLIDE\tITEM\tBOX\tSIZE\tFITTED\tTEXT")
			shrunk := 0
			for si, s := range deck.Slides() {
				for ii, item := range s.VisibleItems() {
					t, ok := item.(*goslides.TextItem)
					if !ok {
						continue
					}
					nominal := float64(t.Style().FontSize)
					mark := ""
					if t.EffectiveFontSize() < nominal {
						mark = " *"
						shrunk++
					} else if overflowOnly {
						continue
					}
					g := t.Geometry()
					fmt.Fprintf(tw, "%d\t%d\t%dx%d\t%g\t%.1f%s\t%s\n",
						si, ii, g.W, g.H, nominal, t.EffectiveFontSize(), mark, excerpt(t.Text(), 32))
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "\n%d item(s) shrunk to fit\n", shrunk)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overflowOnly, "shrunk", false, "only list items that had to shrink")
	return cmd
}
