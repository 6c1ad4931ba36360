// Package asm compiles structured instruction lists into VM bytecode.
//
// A program is a list of items. Each item is one of:
//
//	"loop:"                   a label marking the next instruction
//	"add r1, r2"              an instruction written as text
//	["ldi", "r1", 5]          an instruction with its operands
//
// Operands are registers (r0-r7), memory references ([r2]) and, where an
// instruction takes an immediate, integers, numeric strings or label names.
package asm

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Hackchain/hackchain-debugger/debugger/bit"
	"github.com/Hackchain/hackchain-debugger/debugger/vm"
)

var ErrSyntax = errors.New("syntax error")

type instruction struct {
	index    int
	op       vm.Opcode
	info     vm.Info
	operands []any
}

// Compile assembles program for loading at base. Label values are absolute
// addresses, so base must match where the program ends up in memory.
func Compile(program []any, base int) ([]byte, error) {
	labels := make(map[string]int)
	instructions := make([]instruction, 0, len(program))
	offset := base

	for i, item := range program {
		fields, label, err := split(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if label != "" {
			if _, exists := labels[label]; exists {
				return nil, fmt.Errorf("item %d: %w: duplicate label %q", i, ErrSyntax, label)
			}
			labels[label] = offset
			continue
		}

		name, ok := fields[0].(string)
		if !ok {
			return nil, fmt.Errorf("item %d: %w: mnemonic must be a string, got %v", i, ErrSyntax, fields[0])
		}
		op, info, ok := vm.Lookup(strings.ToLower(name))
		if !ok {
			return nil, fmt.Errorf("item %d: %w: unknown mnemonic %q", i, ErrSyntax, name)
		}
		if len(fields)-1 != len(info.Operands) {
			return nil, fmt.Errorf("item %d: %w: %s takes %d operands, got %d", i, ErrSyntax, info.Name, len(info.Operands), len(fields)-1)
		}

		instructions = append(instructions, instruction{index: i, op: op, info: info, operands: fields[1:]})
		offset += info.Size
	}

	code := make([]byte, 0, offset-base)
	for _, in := range instructions {
		encoded, err := encode(in, labels)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", in.index, err)
		}
		code = append(code, encoded...)
	}
	return code, nil
}

// split normalizes an item into its fields, or returns the label it defines.
func split(item any) (fields []any, label string, err error) {
	switch v := item.(type) {
	case string:
		text := strings.TrimSpace(v)
		if strings.HasSuffix(text, ":") {
			label = strings.TrimSpace(strings.TrimSuffix(text, ":"))
			if label == "" {
				return nil, "", fmt.Errorf("%w: empty label", ErrSyntax)
			}
			return nil, label, nil
		}
		for _, f := range strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		}) {
			fields = append(fields, f)
		}
	case []any:
		fields = v
	default:
		return nil, "", fmt.Errorf("%w: unexpected item %v", ErrSyntax, item)
	}

	if len(fields) == 0 {
		return nil, "", fmt.Errorf("%w: empty instruction", ErrSyntax)
	}
	return fields, "", nil
}

func encode(in instruction, labels map[string]int) ([]byte, error) {
	var regs [2]uint8
	var imm uint16
	slot := 0

	for _, operand := range in.info.Operands {
		value := in.operands[slot]
		switch operand {
		case vm.OperandReg:
			r, err := register(value)
			if err != nil {
				return nil, err
			}
			regs[slot] = r
		case vm.OperandMem:
			s, ok := value.(string)
			if !ok || !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
				return nil, fmt.Errorf("%w: expected memory reference like [r1], got %v", ErrSyntax, value)
			}
			r, err := register(strings.TrimSpace(s[1 : len(s)-1]))
			if err != nil {
				return nil, err
			}
			regs[slot] = r
		case vm.OperandImm:
			v, err := immediate(value, labels)
			if err != nil {
				return nil, err
			}
			imm = v
		}
		slot++
	}

	code := bit.AppendWord(nil, vm.Encode(in.op, regs[0], regs[1]))
	if in.info.HasImmediate() {
		code = bit.AppendWord(code, imm)
	}
	return code, nil
}

func register(value any) (uint8, error) {
	s, ok := value.(string)
	if !ok || len(s) < 2 || (s[0] != 'r' && s[0] != 'R') {
		return 0, fmt.Errorf("%w: expected register, got %v", ErrSyntax, value)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n >= vm.RegisterCount {
		return 0, fmt.Errorf("%w: invalid register %q", ErrSyntax, s)
	}
	return uint8(n), nil
}

func immediate(value any, labels map[string]int) (uint16, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxUint16 {
			return 0, fmt.Errorf("%w: immediate %d out of range", ErrSyntax, v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: immediate %v is not an integer", ErrSyntax, v)
		}
		n = int64(v)
	case string:
		if addr, ok := labels[v]; ok {
			return uint16(addr), nil
		}
		parsed, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: unknown label or number %q", ErrSyntax, v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: unexpected immediate %v", ErrSyntax, value)
	}

	if n < math.MinInt16 || n > math.MaxUint16 {
		return 0, fmt.Errorf("%w: immediate %d out of range", ErrSyntax, n)
	}
	return uint16(n), nil
}
