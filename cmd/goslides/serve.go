package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	goslides "github.com/VantageDataChat/GoSlides"
	"github.com/VantageDataChat/GoSlides/mirror"
	"github.com/spf13/cobra"
)

func (cli *CLI) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Present a deck and mirror the live slide to displays",
		Long: `serve opens FILE, starts the mirror server (GET /ws, GET /current) and
reads operator commands from standard input, one per line:

  next | n          next visible slide
  prev | p          previous visible slide
  goto N            visible slide N (1-based)
  end               show the end-of-presentation slide
  checkpoint | cp   remember the current slide
  jump | j          swap current slide and checkpoint
  status | s        print the current position
  quit | q          stop serving`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			cfg := cli.config()
			if addr != "" {
				cfg.MirrorAddr = addr
			}
			return runServe(cmd.Context(), cfg, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("addr", "", "mirror listen address (default from mirror.addr)")
	return cmd
}

// runServe owns the deck: operator commands, fit callbacks and shutdown are
// all handled on this goroutine.
func runServe(ctx context.Context, cfg config, path string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := goslides.NewLoopScheduler(0)
	opts := cfg.deckOptions()
	opts.Scheduler = sched
	opts.Backgrounds = goslides.NewImageResolver(filepath.Dir(path))

	deck, err := goslides.OpenDeck(path, opts)
	if err != nil {
		return err
	}
	deck.SetPresentationMode(true)

	hub := mirror.NewHub()
	hub.Attach(deck)
	defer hub.Close()

	srv := &http.Server{
		Addr:              cfg.MirrorAddr,
		Handler:           mirror.Router(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	goslides.Logger().Info("mirror listening", "addr", cfg.MirrorAddr, "slides", deck.Len())

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	ctrl := &controller{deck: deck, out: out}
	ctrl.status()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return fmt.Errorf("mirror server: %w", err)
		case t := <-sched.Tasks():
			sched.Run(t)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := ctrl.exec(line)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// controller applies operator commands to a deck.
type controller struct {
	deck *goslides.Deck
	out  io.Writer
}

// exec runs one command line and prints the resulting position.
func (c *controller) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch strings.ToLower(fields[0]) {
	case "next", "n":
		c.deck.NextSlide()
	case "prev", "p":
		c.deck.PreviousSlide()
	case "end":
		c.deck.ShowEndPresentationSlide()
	case "checkpoint", "cp":
		c.deck.SetCheckpoint()
	case "jump", "j":
		c.deck.JumpToCheckpoint()
	case "goto", "g":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: goto N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("goto: %w", err)
		}
		vis := c.deck.VisibleSlides()
		if n < 1 || n > len(vis) {
			return false, fmt.Errorf("goto: slide %d out of range (1-%d)", n, len(vis))
		}
		c.deck.SetCurrent(vis[n-1])
	case "status", "s":
	case "quit", "q", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	c.status()
	return false, nil
}

func (c *controller) status() {
	cur := c.deck.Current()
	total := len(c.deck.VisibleSlides())
	switch {
	case cur == nil:
		fmt.Fprintf(c.out, "no slide (%d visible)\n", total)
	case c.deck.IsEndSlide(cur):
		fmt.Fprintf(c.out, "end of presentation (%d visible)\n", total)
	default:
		msg := fmt.Sprintf("slide %d/%d", c.deck.IndexOf(cur.ID())+1, total)
		if bg := cur.Background(); bg != nil {
			b := bg.Bounds()
			msg += fmt.Sprintf(" [background %dx%d]", b.Dx(), b.Dy())
		}
		if text := excerpt(cur.Serialise().ExtractText(), 48); text != "" {
			msg += ": " + text
		}
		fmt.Fprintln(c.out, msg)
	}
}
