package debugger

import "github.com/Hackchain/hackchain-debugger/debugger/view"

// Machine is the VM capability set the stepper drives. Implementations own
// their yield flags: AdvanceOutput acknowledges a yield before it returns.
type Machine interface {
	view.Memory

	Reset()
	LoadOutput(program []byte)
	LoadInput(program []byte)

	// AdvanceOutput runs the output thread alone for one tick and reports
	// whether it reached a pausable point (yield or halt).
	AdvanceOutput() bool
	// AdvanceBoth runs both threads for one tick and reports whether either
	// of them finished.
	AdvanceBoth() bool

	Output() view.Thread
	Input() view.Thread
}
