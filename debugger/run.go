package debugger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Hackchain/hackchain-debugger/debugger/backend"
	"github.com/Hackchain/hackchain-debugger/debugger/input"
	"github.com/Hackchain/hackchain-debugger/debugger/input/action"
	"github.com/Hackchain/hackchain-debugger/debugger/input/event"
	"github.com/Hackchain/hackchain-debugger/debugger/session"
)

// Title is the window title shells display.
const Title = "hackchain debugger"

// Run restarts s on sess and drives it from b until the user quits. The
// backend is always cleaned up.
func Run(b backend.Backend, s *Stepper, sess *session.Session) (err error) {
	if sess == nil {
		return ErrNoSession
	}
	if err := b.Init(backend.Config{Title: Title, Provider: s}); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		if cerr := b.Cleanup(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to clean up backend: %w", cerr))
		}
	}()

	s.Restart(sess)

	running := true
	handler := input.NewHandler()
	manager := input.NewManager()
	manager.On(action.Step, event.Press, func() {
		if err := s.Step(); err != nil {
			slog.Info("Step ignored", "reason", err, "phase", s.Phase(), "verdict", s.Verdict())
		}
	})
	manager.On(action.Restart, event.Press, func() {
		s.Restart(nil)
	})
	manager.On(action.Quit, event.Press, func() {
		running = false
	})
	for _, act := range []action.Action{action.LogLevelIncrease, action.LogLevelDecrease} {
		act := act
		manager.On(act, event.Press, func() {
			b.HandleAction(act)
		})
	}

	for running {
		events, err := b.Update()
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}

		for _, evt := range events {
			if !handler.ProcessEvent(evt) {
				slog.Debug("Event debounced", "action", evt.Action)
				continue
			}
			if !manager.Trigger(evt.Action, evt.Type) {
				b.HandleAction(evt.Action)
			}
			if !running {
				break
			}
		}
	}

	slog.Info("Debugger stopped", "run", s.RunID(), "phase", s.Phase(), "verdict", s.Verdict())
	return nil
}
