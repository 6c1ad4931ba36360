package input

import (
	"time"

	"github.com/Hackchain/hackchain-debugger/debugger/backend"
	"github.com/Hackchain/hackchain-debugger/debugger/input/action"
	"github.com/Hackchain/hackchain-debugger/debugger/input/event"
)

// debounceDuration is the minimum time between two debounced events
const debounceDuration = 300 * time.Millisecond

// Handler filters input events, debouncing the actions that ask for it
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  debounceDuration,
		now:            time.Now,
	}
}

// ProcessEvent returns true if the event should be handled, false if it was debounced
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if !action.GetInfo(evt.Action).Debounce {
		return true
	}
	if evt.Type != event.Press && evt.Type != event.Release {
		return true
	}

	now := h.now()
	if lastTime, exists := h.lastActionTime[evt.Action]; exists {
		if now.Sub(lastTime) < h.debounceDelay {
			return false
		}
	}
	h.lastActionTime[evt.Action] = now

	return true
}
