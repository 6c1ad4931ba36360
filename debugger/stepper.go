// Package debugger drives a two-thread VM through a debug run: the output
// thread bootstraps alone, then both threads run together until one
// finishes or the tick budget runs out.
package debugger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Hackchain/hackchain-debugger/debugger/phase"
	"github.com/Hackchain/hackchain-debugger/debugger/session"
	"github.com/Hackchain/hackchain-debugger/debugger/view"
)

const (
	DefaultMaxInitTicks = 1024
	DefaultMaxTicks     = 4096

	defaultAlignment = 2
)

var (
	// ErrFinished is returned by Step once the run has a verdict.
	ErrFinished = errors.New("run already finished")
	// ErrNoSession is returned by Step before the first Restart.
	ErrNoSession = errors.New("no session loaded")
	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("invalid debugger config")
)

const (
	verdictBootstrapTimeout = "bootstrap tick budget exhausted"
	verdictBootstrapDone    = "output finished during bootstrap"
	verdictJointTimeout     = "joint tick budget exhausted without a fault"
	verdictJointDone        = "output/input thread finished"
)

// Config bounds a debug run.
type Config struct {
	MaxInitTicks int // non-advancing steps tolerated while bootstrapping
	MaxTicks     int // non-advancing steps tolerated while both threads run
	Alignment    int // byte size of one viewport row
}

func DefaultConfig() Config {
	return Config{
		MaxInitTicks: DefaultMaxInitTicks,
		MaxTicks:     DefaultMaxTicks,
		Alignment:    defaultAlignment,
	}
}

func (c Config) Validate() error {
	if c.MaxInitTicks < 1 {
		return fmt.Errorf("%w: max init ticks must be at least 1, got %d", ErrInvalidConfig, c.MaxInitTicks)
	}
	if c.MaxTicks < 1 {
		return fmt.Errorf("%w: max ticks must be at least 1, got %d", ErrInvalidConfig, c.MaxTicks)
	}
	if c.Alignment < 0 {
		return fmt.Errorf("%w: alignment must not be negative, got %d", ErrInvalidConfig, c.Alignment)
	}
	return nil
}

// run is the mutable state of one debug run. Restart replaces it wholesale.
type run struct {
	id      string
	phase   phase.Phase
	ticks   int
	verdict string
}

// Stepper is the stepping state machine. It is not safe for concurrent use.
type Stepper struct {
	machine Machine
	builder view.Builder
	cfg     Config

	session *session.Session
	run     *run
}

func New(machine Machine, dis view.Disassembler, cfg Config) (*Stepper, error) {
	if machine == nil {
		return nil, errors.New("debugger needs a machine")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Alignment == 0 {
		cfg.Alignment = defaultAlignment
	}

	return &Stepper{
		machine: machine,
		builder: view.Builder{Disassembler: dis, Alignment: cfg.Alignment},
		cfg:     cfg,
	}, nil
}

// Restart begins a fresh run of sess, or of the current session when sess
// is nil. It works from any phase.
func (s *Stepper) Restart(sess *session.Session) {
	if sess != nil {
		s.session = sess
	}
	if s.session == nil {
		slog.Warn("Restart ignored, no session loaded")
		return
	}

	s.machine.Reset()
	s.machine.LoadOutput(s.session.Output())
	s.run = &run{
		id:    uuid.NewString(),
		phase: phase.Bootstrapping,
	}

	slog.Info("Debug run started", "run", s.run.id, "session", s.session.ShortHash())
}

// Step advances the run by one tick.
func (s *Stepper) Step() error {
	if s.run == nil {
		return ErrNoSession
	}

	switch s.run.phase {
	case phase.Bootstrapping:
		s.stepBootstrap()
	case phase.Joint:
		s.stepJoint()
	default:
		return ErrFinished
	}
	return nil
}

func (s *Stepper) stepBootstrap() {
	if !s.machine.AdvanceOutput() {
		s.run.ticks++
		if s.run.ticks >= s.cfg.MaxInitTicks {
			s.transition(phase.Failed, verdictBootstrapTimeout)
		}
		return
	}

	if s.machine.Output().Done() {
		s.transition(phase.Succeeded, verdictBootstrapDone)
		return
	}

	s.machine.LoadInput(s.session.Input())
	s.transition(phase.Joint, "")
}

func (s *Stepper) stepJoint() {
	if s.machine.AdvanceBoth() {
		s.transition(phase.Succeeded, verdictJointDone)
		return
	}

	s.run.ticks++
	// No fault within the budget counts as a pass
	if s.run.ticks >= s.cfg.MaxTicks {
		s.transition(phase.Succeeded, verdictJointTimeout)
	}
}

func (s *Stepper) transition(to phase.Phase, verdict string) {
	from := s.run.phase
	ticks := s.run.ticks

	s.run.phase = to
	s.run.ticks = 0
	s.run.verdict = verdict

	attrs := []any{"run", s.run.id, "from", from, "to", to, "ticks", ticks}
	if verdict != "" {
		attrs = append(attrs, "verdict", verdict)
	}
	slog.Info("Phase changed", attrs...)
}

// Phase returns the current phase. Before the first Restart it reports
// Bootstrapping.
func (s *Stepper) Phase() phase.Phase {
	if s.run == nil {
		return phase.Bootstrapping
	}
	return s.run.phase
}

// Ticks returns the number of consecutive non-advancing steps in the
// current phase.
func (s *Stepper) Ticks() int {
	if s.run == nil {
		return 0
	}
	return s.run.ticks
}

// Verdict returns why the run ended, or "" while it is still going.
func (s *Stepper) Verdict() string {
	if s.run == nil {
		return ""
	}
	return s.run.verdict
}

// RunID identifies the current run in log lines.
func (s *Stepper) RunID() string {
	if s.run == nil {
		return ""
	}
	return s.run.id
}

func (s *Stepper) budget() int {
	if s.Phase() == phase.Joint {
		return s.cfg.MaxTicks
	}
	return s.cfg.MaxInitTicks
}

// View renders both threads with rows viewport lines each.
func (s *Stepper) View(rows int) view.State {
	state := view.State{
		Phase:   s.Phase(),
		Ticks:   s.Ticks(),
		Budget:  s.budget(),
		Verdict: s.Verdict(),
		RunID:   s.RunID(),

		Output:          s.builder.Build(s.machine.Output(), rows, s.machine),
		Input:           s.builder.Build(s.machine.Input(), rows, s.machine),
		OutputRegisters: view.FormatRegisters(s.machine.Output()),
		InputRegisters:  view.FormatRegisters(s.machine.Input()),
	}
	if s.session != nil {
		state.Hash = s.session.ShortHash()
	}
	return state
}
