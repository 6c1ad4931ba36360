package headless

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Hackchain/hackchain-debugger/debugger/backend"
	"github.com/Hackchain/hackchain-debugger/debugger/input/action"
	"github.com/Hackchain/hackchain-debugger/debugger/input/event"
	"github.com/Hackchain/hackchain-debugger/debugger/view"
)

// DefaultRows is the viewport height used when none is configured.
const DefaultRows = 9

// Options configures a headless run
type Options struct {
	Rows  int       // Viewport rows per thread
	Trace bool      // Print the view after every step, not only the last
	Out   io.Writer // Where views are printed, stdout when nil
}

// Backend implements the Backend interface for batch runs: it steps until
// the run reaches a verdict, prints it, and quits.
type Backend struct {
	config backend.Config
	opts   Options
	steps  int
}

func New(opts Options) *Backend {
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Backend{opts: opts}
}

func (h *Backend) Init(config backend.Config) error {
	if config.Provider == nil {
		return errors.New("headless backend needs a view provider")
	}
	h.config = config

	slog.Info("Running headless mode", "title", config.Title, "rows", h.opts.Rows, "trace", h.opts.Trace)
	return nil
}

// Update asks for one more step, or quits once the run has a verdict
func (h *Backend) Update() ([]backend.InputEvent, error) {
	state := h.config.Provider.View(h.opts.Rows)

	if h.opts.Trace || state.Phase.Terminal() {
		if err := Print(h.opts.Out, state); err != nil {
			return nil, fmt.Errorf("failed to print view: %w", err)
		}
	}

	if state.Phase.Terminal() {
		slog.Info("Headless run completed", "steps", h.steps, "phase", state.Phase, "verdict", state.Verdict)
		return []backend.InputEvent{{Action: action.Quit, Type: event.Press}}, nil
	}

	h.steps++
	return []backend.InputEvent{{Action: action.Step, Type: event.Press}}, nil
}

// Steps returns how many steps were requested so far.
func (h *Backend) Steps() int {
	return h.steps
}

func (h *Backend) HandleAction(act action.Action) {
	slog.Debug("Action not supported in headless backend", "action", act)
}

func (h *Backend) Cleanup() error {
	return nil
}

// Print writes a plain text rendering of state.
func Print(w io.Writer, state view.State) error {
	header := fmt.Sprintf("== %s ticks=%d/%d session=%s run=%s", state.Phase, state.Ticks, state.Budget, state.Hash, state.RunID)
	if state.Verdict != "" {
		header += " (" + state.Verdict + ")"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	panes := []struct {
		name      string
		window    view.Window
		registers string
	}{
		{"output", state.Output, state.OutputRegisters},
		{"input", state.Input, state.InputRegisters},
	}
	for _, pane := range panes {
		if _, err := fmt.Fprintf(w, "-- %s %s\n", pane.name, pane.registers); err != nil {
			return err
		}
		for _, line := range pane.window.Lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
