package phase

// Phase is the coarse execution state of a debug run.
type Phase int

const (
	Bootstrapping Phase = iota // output thread runs alone
	Joint                      // both threads run together
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Bootstrapping:
		return "bootstrapping"
	case Joint:
		return "joint"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run has reached a verdict.
func (p Phase) Terminal() bool {
	return p == Succeeded || p == Failed
}
