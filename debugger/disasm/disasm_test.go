package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hackchain/hackchain-debugger/debugger/bit"
	"github.com/Hackchain/hackchain-debugger/debugger/view"
	"github.com/Hackchain/hackchain-debugger/debugger/vm"
)

func words(values ...uint16) []byte {
	var buf []byte
	for _, v := range values {
		buf = bit.AppendWord(buf, v)
	}
	return buf
}

func TestDisassembleAt(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		want   string
		length int
	}{
		{"no operands", words(vm.Encode(vm.OpHlt, 0, 0)), "hlt", 2},
		{"two registers", words(vm.Encode(vm.OpAdd, 1, 2)), "add r1, r2", 2},
		{"load from memory", words(vm.Encode(vm.OpLdw, 3, 4)), "ldw r3, [r4]", 2},
		{"store to memory", words(vm.Encode(vm.OpStb, 5, 6)), "stb [r5], r6", 2},
		{"immediate", words(vm.Encode(vm.OpLdi, 1, 0), 0xBEEF), "ldi r1, 0xbeef", 4},
		{"jump", words(vm.Encode(vm.OpJmp, 0, 0), 0x0010), "jmp 0x0010", 4},
		{"conditional jump", words(vm.Encode(vm.OpJnz, 7, 0), 0x8000), "jnz r7, 0x8000", 4},
		{"missing immediate", words(vm.Encode(vm.OpLdi, 2, 0)), "ldi r2, ?", 2},
		{"unknown opcode", words(0xFF12), ".word 0xff12", 2},
		{"trailing byte", []byte{0x42}, ".byte 0x42", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := DisassembleAt(tt.code, 0)
			assert.Equal(t, tt.want, line.Instruction)
			assert.Equal(t, tt.length, line.Length)
		})
	}
}

func TestDisassembleRange(t *testing.T) {
	code := words(
		vm.Encode(vm.OpLdi, 1, 0), 0x0005,
		vm.Encode(vm.OpYld, 0, 0),
		vm.Encode(vm.OpHlt, 0, 0),
	)
	code = append(code, 0x07)

	lines := DisassembleRange(code)

	assert.Len(t, lines, 4)
	assert.Equal(t, []int{0, 4, 6, 8}, []int{lines[0].Offset, lines[1].Offset, lines[2].Offset, lines[3].Offset})
	assert.Equal(t, ".byte 0x07", lines[3].Instruction)
}

func TestDisassemble(t *testing.T) {
	code := words(
		vm.Encode(vm.OpMov, 1, 2),
		vm.Encode(vm.OpJr, 1, 0),
	)

	assert.Equal(t, "mov r1, r2\njr r1\n", Disassemble(code))
	assert.Equal(t, "", Disassemble(nil))
}

func TestDecoderImplementsDisassembler(t *testing.T) {
	var _ view.Disassembler = Decoder{}
}
