package vm

// RegisterCount is the number of general purpose registers per thread.
// r0 always reads as zero.
const RegisterCount = 8

// ThreadID selects one of the two threads of a Machine.
type ThreadID int

const (
	OutputThread ThreadID = iota
	InputThread
)

func (id ThreadID) String() string {
	if id == InputThread {
		return "input"
	}
	return "output"
}

// Thread is one register file and program counter executing against the
// shared memory of a Machine.
type Thread struct {
	id   ThreadID
	pc   uint16
	regs [RegisterCount]uint16

	done    bool
	yielded bool
	fault   error
}

func (t *Thread) reset(pc uint16) {
	t.pc = pc
	t.regs = [RegisterCount]uint16{}
	t.done = false
	t.yielded = false
	t.fault = nil
}

// PC returns the byte offset of the next instruction.
func (t *Thread) PC() int {
	return int(t.pc)
}

// Registers returns a copy of the register file, r0 included.
func (t *Thread) Registers() []uint16 {
	regs := t.regs
	return regs[:]
}

// Done reports whether the thread halted or faulted.
func (t *Thread) Done() bool {
	return t.done
}

// Fault returns the error that stopped the thread, if any.
func (t *Thread) Fault() error {
	return t.fault
}

// ID returns which thread this is.
func (t *Thread) ID() ThreadID {
	return t.id
}

func (t *Thread) reg(index uint8) uint16 {
	if index == 0 {
		return 0
	}
	return t.regs[index]
}

func (t *Thread) setReg(index uint8, value uint16) {
	if index == 0 {
		return
	}
	t.regs[index] = value
}

func (t *Thread) stop(err error) {
	t.done = true
	t.fault = err
}
