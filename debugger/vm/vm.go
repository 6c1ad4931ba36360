package vm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Hackchain/hackchain-debugger/debugger/bit"
	"github.com/Hackchain/hackchain-debugger/debugger/view"
)

const (
	// MemorySize is the size of the shared memory image in bytes.
	MemorySize = 0x10000

	// RegionSize is the largest program either thread can be loaded with.
	RegionSize = 0x8000

	OutputBase = 0x0000
	InputBase  = 0x8000

	// Alignment is the minimum instruction size; program counters are
	// always a multiple of it.
	Alignment = 2
)

var (
	ErrInvalidOpcode   = errors.New("invalid opcode")
	ErrInvalidRegister = errors.New("invalid register")
	ErrMisaligned      = errors.New("misaligned program counter")
)

// Machine runs an output and an input thread against one shared memory image.
type Machine struct {
	mem    []byte
	output Thread
	input  Thread
}

// New creates a machine with zeroed memory and both threads at their base
// addresses.
func New() *Machine {
	m := &Machine{
		mem:    make([]byte, MemorySize),
		output: Thread{id: OutputThread},
		input:  Thread{id: InputThread},
	}
	m.Reset()
	return m
}

// Reset discards all execution state.
func (m *Machine) Reset() {
	clear(m.mem)
	m.output.reset(OutputBase)
	m.input.reset(InputBase)
}

// LoadOutput copies program to the output region and rewinds the output thread.
func (m *Machine) LoadOutput(program []byte) {
	m.load(&m.output, OutputBase, program)
}

// LoadInput copies program to the input region and rewinds the input thread.
func (m *Machine) LoadInput(program []byte) {
	m.load(&m.input, InputBase, program)
}

func (m *Machine) load(t *Thread, base int, program []byte) {
	n := copy(m.mem[base:base+RegionSize], program)
	if n < len(program) {
		slog.Warn("Program truncated to region size", "thread", t.id, "size", len(program), "loaded", n)
	}
	t.reset(uint16(base))
}

// AdvanceOutput executes one output instruction. It returns true when the
// thread yielded or halted cleanly. The yield is acknowledged before
// returning, so it is reported exactly once.
func (m *Machine) AdvanceOutput() bool {
	t := &m.output
	if t.done {
		return false
	}

	m.exec(t)

	if t.fault != nil {
		return false
	}
	if t.done {
		return true
	}
	if t.yielded {
		t.yielded = false
		return true
	}
	return false
}

// AdvanceBoth executes one instruction on the output thread and then one on
// the input thread. It returns true when either thread is finished.
func (m *Machine) AdvanceBoth() bool {
	terminated := false
	for _, t := range []*Thread{&m.output, &m.input} {
		if !t.done {
			m.exec(t)
			t.yielded = false
		}
		if t.done {
			terminated = true
		}
	}
	return terminated
}

// Output returns the output thread.
func (m *Machine) Output() view.Thread {
	return &m.output
}

// Input returns the input thread.
func (m *Machine) Input() view.Thread {
	return &m.input
}

// Thread returns the concrete thread state, including its fault.
func (m *Machine) Thread(id ThreadID) *Thread {
	if id == InputThread {
		return &m.input
	}
	return &m.output
}

// Slice returns a copy of memory in [start, end), clamped to the image.
func (m *Machine) Slice(start, end int) []byte {
	start = max(start, 0)
	end = min(end, len(m.mem))
	if start >= end {
		return nil
	}
	return append([]byte(nil), m.mem[start:end]...)
}

// Size returns the size of the memory image.
func (m *Machine) Size() int {
	return len(m.mem)
}

// Word reads the big-endian word at addr, wrapping at the end of memory.
func (m *Machine) Word(addr uint16) uint16 {
	return bit.Combine(m.mem[addr], m.mem[addr+1])
}

func (m *Machine) setWord(addr, value uint16) {
	m.mem[addr] = bit.High(value)
	m.mem[addr+1] = bit.Low(value)
}

func (m *Machine) exec(t *Thread) {
	pc := t.pc
	if pc%Alignment != 0 {
		t.stop(fmt.Errorf("%w: 0x%04x", ErrMisaligned, pc))
		slog.Debug("Thread fault", "thread", t.id, "error", t.fault)
		return
	}

	op, a, b := Decode(m.Word(pc))
	info, ok := Instructions[op]
	if !ok {
		t.stop(fmt.Errorf("%w 0x%02x at 0x%04x", ErrInvalidOpcode, uint8(op), pc))
		slog.Debug("Thread fault", "thread", t.id, "error", t.fault)
		return
	}

	fields := []uint8{a, b}
	for i, operand := range info.Operands {
		if operand == OperandImm || i >= len(fields) {
			continue
		}
		if fields[i] >= RegisterCount {
			t.stop(fmt.Errorf("%w r%d at 0x%04x", ErrInvalidRegister, fields[i], pc))
			slog.Debug("Thread fault", "thread", t.id, "error", t.fault)
			return
		}
	}

	next := pc + uint16(info.Size)
	var imm uint16
	if info.HasImmediate() {
		imm = m.Word(pc + Alignment)
	}

	switch op {
	case OpNop:
	case OpHlt:
		t.stop(nil)
		return
	case OpYld:
		t.yielded = true

	case OpLdi:
		t.setReg(a, imm)
	case OpMov:
		t.setReg(a, t.reg(b))
	case OpLdw:
		t.setReg(a, m.Word(t.reg(b)))
	case OpStw:
		m.setWord(t.reg(a), t.reg(b))
	case OpLdb:
		t.setReg(a, uint16(m.mem[t.reg(b)]))
	case OpStb:
		m.mem[t.reg(a)] = bit.Low(t.reg(b))

	case OpAdd:
		t.setReg(a, t.reg(a)+t.reg(b))
	case OpSub:
		t.setReg(a, t.reg(a)-t.reg(b))
	case OpMul:
		t.setReg(a, t.reg(a)*t.reg(b))
	case OpAnd:
		t.setReg(a, t.reg(a)&t.reg(b))
	case OpOr:
		t.setReg(a, t.reg(a)|t.reg(b))
	case OpXor:
		t.setReg(a, t.reg(a)^t.reg(b))
	case OpShl:
		t.setReg(a, t.reg(a)<<(t.reg(b)&0x0F))
	case OpShr:
		t.setReg(a, t.reg(a)>>(t.reg(b)&0x0F))

	case OpJmp:
		next = imm
	case OpJz:
		if t.reg(a) == 0 {
			next = imm
		}
	case OpJnz:
		if t.reg(a) != 0 {
			next = imm
		}
	case OpJr:
		next = t.reg(a)
	}

	t.pc = next
}
