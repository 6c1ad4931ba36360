package view

import (
	"strings"
)

const (
	// Placeholder fills rows the disassembly could not provide.
	Placeholder = "..."

	currentMarker = "* "
	otherMarker   = "  "
)

// Thread is the read-only view of a VM thread.
type Thread interface {
	PC() int
	Registers() []uint16
	Done() bool
}

// Memory is a bounded reader over the shared memory image.
type Memory interface {
	Slice(start, end int) []byte
	Size() int
}

// Disassembler turns raw bytes into newline separated instruction text.
type Disassembler interface {
	Disassemble(code []byte) string
}

// Window is a fixed-height disassembly listing centered on a thread's PC.
type Window struct {
	Start   int
	Rows    int
	Lines   []string
	Current int
}

// Builder produces Windows. Alignment is the byte size of one row, the
// smallest instruction the VM can decode.
type Builder struct {
	Disassembler Disassembler
	Alignment    int
}

// Build returns a window of exactly rows lines around t's program counter.
// Half the rows, rounded down, are spent before the current instruction and
// the rest from it onwards.
func (b Builder) Build(t Thread, rows int, mem Memory) Window {
	rows = max(rows, 1)
	align := max(b.Alignment, 1)

	before := rows / 2
	after := rows - before

	pc := t.PC()
	rawStart := pc - before*align
	start := max(rawStart, 0)
	end := min(pc+after*align, mem.Size())

	var decoded []string
	if start < end && b.Disassembler != nil {
		decoded = splitLines(b.Disassembler.Disassemble(mem.Slice(start, end)))
	}

	if missing := rows - len(decoded); missing > 0 {
		padded := make([]string, 0, rows)
		for j := 0; j < missing; j++ {
			padded = append(padded, Placeholder)
		}
		decoded = append(padded, decoded...)
	}
	decoded = decoded[len(decoded)-rows:]

	first := floorDiv(rawStart, align)
	lines := make([]string, rows)
	for i, text := range decoded {
		marker := otherMarker
		if i == before {
			marker = currentMarker
		}
		lines[i] = marker + FormatAddress(max(0, first+i)) + " " + text
	}

	return Window{
		Start:   start,
		Rows:    rows,
		Lines:   lines,
		Current: before,
	}
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
