package view

import (
	"fmt"
	"strings"
)

// FormatRegisters renders r1..rN-1 as "rI:0xNNNN" joined by spaces. r0 is
// reserved and never shown.
func FormatRegisters(t Thread) string {
	regs := t.Registers()
	if len(regs) <= 1 {
		return ""
	}

	parts := make([]string, 0, len(regs)-1)
	for i := 1; i < len(regs); i++ {
		parts = append(parts, fmt.Sprintf("r%d:%s", i, FormatAddress(int(regs[i]))))
	}
	return strings.Join(parts, " ")
}
