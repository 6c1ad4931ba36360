package disasm

import (
	"fmt"
	"strings"

	"github.com/Hackchain/hackchain-debugger/debugger/bit"
	"github.com/Hackchain/hackchain-debugger/debugger/vm"
)

// Line represents a single disassembled instruction
type Line struct {
	Offset      int
	Instruction string
	Length      int
}

// DisassembleAt decodes the instruction starting at offset in code.
func DisassembleAt(code []byte, offset int) Line {
	remaining := len(code) - offset
	if remaining <= 0 {
		return Line{Offset: offset}
	}
	if remaining == 1 {
		return Line{
			Offset:      offset,
			Instruction: fmt.Sprintf(".byte 0x%02x", code[offset]),
			Length:      1,
		}
	}

	word := bit.Word(code, offset)
	op, a, b := vm.Decode(word)
	info, ok := vm.Instructions[op]
	if !ok {
		return Line{
			Offset:      offset,
			Instruction: fmt.Sprintf(".word 0x%04x", word),
			Length:      vm.Alignment,
		}
	}

	length := min(info.Size, remaining)
	imm := "?"
	if info.HasImmediate() && remaining >= info.Size {
		imm = fmt.Sprintf("0x%04x", bit.Word(code, offset+vm.Alignment))
	}

	return Line{
		Offset:      offset,
		Instruction: format(info, a, b, imm),
		Length:      length,
	}
}

func format(info vm.Info, a, b uint8, imm string) string {
	if len(info.Operands) == 0 {
		return info.Name
	}

	fields := []uint8{a, b}
	operands := make([]string, 0, len(info.Operands))
	for i, operand := range info.Operands {
		switch operand {
		case vm.OperandReg:
			operands = append(operands, fmt.Sprintf("r%d", fields[i]))
		case vm.OperandMem:
			operands = append(operands, fmt.Sprintf("[r%d]", fields[i]))
		case vm.OperandImm:
			operands = append(operands, imm)
		}
	}
	return info.Name + " " + strings.Join(operands, ", ")
}

// DisassembleRange decodes every instruction in code, from its first byte.
func DisassembleRange(code []byte) []Line {
	lines := make([]Line, 0, len(code)/vm.Alignment+1)
	for offset := 0; offset < len(code); {
		line := DisassembleAt(code, offset)
		lines = append(lines, line)
		offset += line.Length
	}
	return lines
}

// Disassemble renders code as one newline terminated instruction per line.
func Disassemble(code []byte) string {
	var sb strings.Builder
	for _, line := range DisassembleRange(code) {
		sb.WriteString(line.Instruction)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Decoder adapts Disassemble to the viewport builder.
type Decoder struct{}

func (Decoder) Disassemble(code []byte) string {
	return Disassemble(code)
}
