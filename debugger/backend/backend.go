package backend

import (
	"github.com/Hackchain/hackchain-debugger/debugger/input/action"
	"github.com/Hackchain/hackchain-debugger/debugger/input/event"
	"github.com/Hackchain/hackchain-debugger/debugger/view"
)

// InputEvent is a user action reported by a backend
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// ViewProvider builds the view a backend paints. rows is the number of
// viewport rows the backend has room for in each thread pane.
type ViewProvider interface {
	View(rows int) view.State
}

// Backend is a user interface shell for the debugger.
// Backends are responsible for:
// - Painting the current view state from the ViewProvider
// - Translating platform-specific input to InputEvents
// - Handling backend-specific actions (log filtering, etc.)
type Backend interface {
	// Init configures the backend. It must be called before Update.
	Init(config Config) error

	// Update paints the current view and returns the input events
	// collected since the last call. Interactive backends block until
	// there is at least one event or a repaint is needed.
	Update() ([]InputEvent, error)

	// HandleAction processes actions the debugger core does not own.
	HandleAction(act action.Action)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends
type Config struct {
	Title    string
	Provider ViewProvider
}
