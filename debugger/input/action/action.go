package action

// Action represents something the user can ask the debugger to do
type Action int

const (
	// Execution controls
	Step Action = iota
	Restart
	Quit

	// Log panel controls
	LogLevelIncrease
	LogLevelDecrease
)

// Category groups actions by what they act on
type Category int

const (
	CategoryExecution Category = iota
	CategoryDebug
)

// Info describes an action
type Info struct {
	Description string
	Category    Category
	// Debounce drops repeats that arrive too quickly, for actions where an
	// accidental double press would lose state.
	Debounce bool
}

var infos = map[Action]Info{
	Step:             {"Step", CategoryExecution, false},
	Restart:          {"Restart", CategoryExecution, true},
	Quit:             {"Quit", CategoryExecution, false},
	LogLevelIncrease: {"Increase log detail", CategoryDebug, false},
	LogLevelDecrease: {"Decrease log detail", CategoryDebug, false},
}

// GetInfo returns the description of an action
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Description: "Unknown", Category: CategoryDebug}
}

func (a Action) String() string {
	return GetInfo(a).Description
}
