package view

import "github.com/Hackchain/hackchain-debugger/debugger/phase"

// State is everything a shell needs to paint one frame.
type State struct {
	Phase   phase.Phase
	Ticks   int
	Budget  int // tick ceiling of the current phase
	Verdict string

	Hash  string
	RunID string

	Output          Window
	Input           Window
	OutputRegisters string
	InputRegisters  string
}
