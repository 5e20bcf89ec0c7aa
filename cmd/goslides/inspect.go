package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	goslides "github.com/VantageDataChat/GoSlides"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// deckSummary is what inspect reports about a document.
type deckSummary struct {
	Title    string         `json:"title" yaml:"title"`
	Slides   int            `json:"slides" yaml:"slides"`
	Current  int            `json:"current" yaml:"current"`
	Preview  int            `json:"preview" yaml:"preview"`
	Valid    bool           `json:"valid" yaml:"valid"`
	Problems []string       `json:"problems,omitempty" yaml:"problems,omitempty"`
	Details  []slideSummary `json:"details" yaml:"details"`
}

type slideSummary struct {
	Index      int    `json:"index" yaml:"index"`
	Transition string `json:"transition" yaml:"transition"`
	DurationMS int    `json:"durationMs" yaml:"durationMs"`
	Items      int    `json:"items" yaml:"items"`
	Background string `json:"background" yaml:"background"`
	Pattern    string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Text       string `json:"text" yaml:"text"`
}

func (cli *CLI) newInspectCommand() *cobra.Command {
	var format string
	var strict bool
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarise a deck and report structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := goslides.Open(args[0])
			if err != nil {
				return err
			}
			sum := summarise(doc)
			if err := writeSummary(cmd.OutOrStdout(), sum, format); err != nil {
				return err
			}
			if strict && !sum.Valid {
				return fmt.Errorf("%s: %d problem(s) found", args[0], len(sum.Problems))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when validation fails")
	return cmd
}

func summarise(doc *goslides.Document) deckSummary {
	sum := deckSummary{
		Title:   doc.Title,
		Slides:  len(doc.Slides),
		Current: doc.CurrentSlide,
		Preview: doc.PreviewSlide,
		Valid:   true,
		Details: []slideSummary{},
	}
	if err := goslides.Validate(doc); err != nil {
		sum.Valid = false
		lines := strings.Split(err.Error(), "\n")
		for _, l := range lines[1:] {
			sum.Problems = append(sum.Problems, strings.TrimSpace(l))
		}
	}
	for i, s := range doc.Slides {
		sum.Details = append(sum.Details, slideSummary{
			Index:      i,
			Transition: s.Transition.String(),
			DurationMS: s.TransitionDuration,
			Items:      len(s.Items),
			Background: s.BackgroundColor,
			Pattern:    s.BackgroundPattern,
			Text:       excerpt(s.ExtractText(), 40),
		})
	}
	return sum
}

func writeSummary(w io.Writer, sum deckSummary, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return writeSummaryTable(w, sum)
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func writeSummaryTable(w io.Writer, sum deckSummary) error {
	fmt.Fprintf(w, "Title:   %s\n", sum.Title)
	fmt.Fprintf(w, "Slides:  %d (current %d, preview %d)\n\n", sum.Slides, sum.Current, sum.Preview)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTRANSITION\tMS\tITEMS\tBACKGROUND\tTEXT")
	for _, s := range sum.Details {
		bg := s.Background
		if s.Pattern != "" {
			bg += " + " + s.Pattern
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\n", s.Index, s.Transition, s.DurationMS, s.Items, bg, s.Text)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if sum.Valid {
		fmt.Fprintln(w, "\nValid")
		return nil
	}
	fmt.Fprintf(w, "\n%d problem(s):\n", len(sum.Problems))
	for _, p := range sum.Problems {
		fmt.Fprintf(w, "  %s\n", p)
	}
	return nil
}

// excerpt flattens text to one line of at most n runes.
func excerpt(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	r := []rune(flat)
	if len(r) <= n {
		return flat
	}
	return string(r[:n-1]) + "…"
}
