package vm

import "github.com/Hackchain/hackchain-debugger/debugger/bit"

// Opcode is the high byte of an instruction's first word.
type Opcode uint8

const (
	OpNop Opcode = 0x00
	OpHlt Opcode = 0x01
	OpYld Opcode = 0x02

	OpLdi Opcode = 0x10
	OpMov Opcode = 0x11
	OpLdw Opcode = 0x12
	OpStw Opcode = 0x13
	OpLdb Opcode = 0x14
	OpStb Opcode = 0x15

	OpAdd Opcode = 0x20
	OpSub Opcode = 0x21
	OpMul Opcode = 0x22
	OpAnd Opcode = 0x23
	OpOr  Opcode = 0x24
	OpXor Opcode = 0x25
	OpShl Opcode = 0x26
	OpShr Opcode = 0x27

	OpJmp Opcode = 0x30
	OpJz  Opcode = 0x31
	OpJnz Opcode = 0x32
	OpJr  Opcode = 0x33
)

// Operand describes what an instruction operand slot holds.
// Register and memory operands fill the a field first, then b.
type Operand int

const (
	OperandReg Operand = iota // rN
	OperandMem                // [rN]
	OperandImm                // trailing 16 bit word
)

// Info describes the shape of an instruction.
type Info struct {
	Name     string
	Operands []Operand
	Size     int
}

// HasImmediate reports whether the instruction carries a second word.
func (i Info) HasImmediate() bool {
	return i.Size > Alignment
}

var (
	regReg = []Operand{OperandReg, OperandReg}
	regImm = []Operand{OperandReg, OperandImm}
)

// Instructions is the full instruction table, keyed by opcode.
var Instructions = map[Opcode]Info{
	OpNop: {"nop", nil, 2},
	OpHlt: {"hlt", nil, 2},
	OpYld: {"yld", nil, 2},

	OpLdi: {"ldi", regImm, 4},
	OpMov: {"mov", regReg, 2},
	OpLdw: {"ldw", []Operand{OperandReg, OperandMem}, 2},
	OpStw: {"stw", []Operand{OperandMem, OperandReg}, 2},
	OpLdb: {"ldb", []Operand{OperandReg, OperandMem}, 2},
	OpStb: {"stb", []Operand{OperandMem, OperandReg}, 2},

	OpAdd: {"add", regReg, 2},
	OpSub: {"sub", regReg, 2},
	OpMul: {"mul", regReg, 2},
	OpAnd: {"and", regReg, 2},
	OpOr:  {"or", regReg, 2},
	OpXor: {"xor", regReg, 2},
	OpShl: {"shl", regReg, 2},
	OpShr: {"shr", regReg, 2},

	OpJmp: {"jmp", []Operand{OperandImm}, 4},
	OpJz:  {"jz", regImm, 4},
	OpJnz: {"jnz", regImm, 4},
	OpJr:  {"jr", []Operand{OperandReg}, 2},
}

var byName = buildNameIndex()

func buildNameIndex() map[string]Opcode {
	index := make(map[string]Opcode, len(Instructions))
	for op, info := range Instructions {
		index[info.Name] = op
	}
	return index
}

// Lookup finds an instruction by mnemonic.
func Lookup(name string) (Opcode, Info, bool) {
	op, ok := byName[name]
	if !ok {
		return 0, Info{}, false
	}
	return op, Instructions[op], true
}

// Encode builds the first word of an instruction.
func Encode(op Opcode, a, b uint8) uint16 {
	return bit.Combine(uint8(op), bit.PackNibbles(a, b))
}

// Decode splits the first word of an instruction into opcode and register fields.
func Decode(word uint16) (op Opcode, a, b uint8) {
	fields := bit.Low(word)
	return Opcode(bit.High(word)), bit.HighNibble(fields), bit.LowNibble(fields)
}
