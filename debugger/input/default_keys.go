package input

import "github.com/Hackchain/hackchain-debugger/debugger/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Execution controls
	"n":      action.Step,
	"s":      action.Step,
	"Space":  action.Step,
	"Enter":  action.Step,
	"r":      action.Restart,
	"q":      action.Quit,
	"Escape": action.Quit,

	// Log panel controls
	"+": action.LogLevelIncrease,
	"=": action.LogLevelIncrease, // Alternative without shift
	"-": action.LogLevelDecrease,
	"_": action.LogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
