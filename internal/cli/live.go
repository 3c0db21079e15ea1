package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/layerdeck/internal/compositor"
	"github.com/roach88/layerdeck/internal/engine"
	"github.com/roach88/layerdeck/internal/ir"
)

// errQuit ends a live session.
var errQuit = errors.New("quit")

// NewLiveCommand creates the live command.
func NewLiveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Drive a canvas interactively from stdin",
		Long: `Start a canvas with a real wall-clock playhead and read one command
per line from stdin. Every frame that paints differently from the previous
one is printed.

Commands:
  upload <video|image|mime> <source>   add a layer
  select <id>                          raise and select a layer
  drag <id> <dx> <dy>                  move a layer
  resize <id> <width> <height>         set a layer's size
  retime <id> <start> <end>            set a video's time range
  remove <id>                          delete the selected layer
  designate <id>                       choose the reference video
  canvas <width> <height>              resize the canvas
  toggle                               play or pause
  seek <seconds>                       move the playhead
  quit                                 finish pending commands and exit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(rootOpts, cmd)
		},
	}

	return cmd
}

func runLive(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	eng := engine.New(opts.Engine)
	defer eng.Close()

	p := &framePrinter{w: cmd.OutOrStdout(), json: opts.Format == "json"}
	eng.Subscribe(p.print)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := eng.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer eng.Stop()
		return readCommands(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), eng)
	})

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "live session failed", err)
	}
	return nil
}

// readCommands parses stdin lines into events until EOF, quit or ctx ends.
func readCommands(ctx context.Context, r io.Reader, errw io.Writer, eng *engine.Engine) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			ev, err := ParseCommand(line)
			switch {
			case errors.Is(err, errQuit):
				return nil
			case err != nil:
				fmt.Fprintf(errw, "%s %v\n", failMark(), err)
				continue
			case ev == nil:
				continue
			}
			if !eng.Enqueue(*ev) {
				return nil
			}
		}
	}
}

// ParseCommand converts one live command line into an event. Blank lines
// and lines starting with # yield a nil event.
func ParseCommand(line string) (*engine.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s: want %d argument(s), got %d", name, n, len(args))
		}
		return nil
	}
	nums := func(from int) ([]float64, error) {
		out := make([]float64, 0, len(args)-from)
		for _, a := range args[from:] {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %q is not a number", name, a)
			}
			out = append(out, v)
		}
		return out, nil
	}

	var ev engine.Event
	switch name {
	case "quit", "exit":
		return nil, errQuit
	case "toggle", "play", "pause":
		if err := want(0); err != nil {
			return nil, err
		}
		ev = engine.Toggle()
	case "upload":
		if err := want(2); err != nil {
			return nil, err
		}
		kind, ok := ir.ParseKind(args[0])
		if !ok {
			return nil, fmt.Errorf("upload: unsupported kind %q", args[0])
		}
		ev = engine.Upload(kind, args[1])
	case "select", "remove", "designate":
		if err := want(1); err != nil {
			return nil, err
		}
		id := ir.ItemID(args[0])
		switch name {
		case "select":
			ev = engine.Select(id)
		case "remove":
			ev = engine.Remove(id)
		default:
			ev = engine.Designate(id)
		}
	case "drag", "resize", "retime":
		if err := want(3); err != nil {
			return nil, err
		}
		n, err := nums(1)
		if err != nil {
			return nil, err
		}
		id := ir.ItemID(args[0])
		switch name {
		case "drag":
			ev = engine.Drag(id, n[0], n[1])
		case "resize":
			ev = engine.Resize(id, n[0], n[1])
		default:
			ev = engine.Retime(id, n[0], n[1])
		}
	case "canvas":
		if err := want(2); err != nil {
			return nil, err
		}
		n, err := nums(0)
		if err != nil {
			return nil, err
		}
		ev = engine.Canvas(n[0], n[1])
	case "seek":
		if err := want(1); err != nil {
			return nil, err
		}
		n, err := nums(0)
		if err != nil {
			return nil, err
		}
		ev = engine.Seek(n[0])
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
	return &ev, nil
}

// framePrinter writes one line per frame whose digest differs from the
// previous frame's.
type framePrinter struct {
	mu     sync.Mutex
	w      io.Writer
	json   bool
	digest string
}

func (p *framePrinter) print(f compositor.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if f.Digest != "" && f.Digest == p.digest {
		return
	}
	p.digest = f.Digest

	if p.json {
		_ = json.NewEncoder(p.w).Encode(f)
		return
	}

	selected := "-"
	if f.Selected != nil {
		selected = string(f.Selected.ID)
	}
	fmt.Fprintf(p.w, "#%d %s %s layers=%d visible=%s selected=%s\n",
		f.Seq, f.Label, f.State, len(f.Layers), joinIDs(f.VisibleIDs()), selected)
}
