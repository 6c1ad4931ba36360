package session

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Hackchain/hackchain-debugger/debugger/asm"
	"github.com/Hackchain/hackchain-debugger/debugger/vm"
)

// HashSize is the length of a session hash in bytes.
const HashSize = 32

var ErrInvalidPayload = errors.New("invalid session payload")

// Session is one debug run: an identifying hash plus the compiled output and
// input programs. It is immutable once constructed.
type Session struct {
	hash   [HashSize]byte
	output []byte
	input  []byte
}

// New validates and copies its arguments into a Session.
func New(hash, output, input []byte) (*Session, error) {
	if len(hash) != HashSize {
		return nil, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInvalidPayload, HashSize, len(hash))
	}
	if len(output) > vm.RegionSize {
		return nil, fmt.Errorf("%w: output program is %d bytes, limit is %d", ErrInvalidPayload, len(output), vm.RegionSize)
	}
	if len(input) > vm.RegionSize {
		return nil, fmt.Errorf("%w: input program is %d bytes, limit is %d", ErrInvalidPayload, len(input), vm.RegionSize)
	}

	s := &Session{
		output: bytes.Clone(output),
		input:  bytes.Clone(input),
	}
	copy(s.hash[:], hash)
	return s, nil
}

// Hash returns the full hash as lower-case hex.
func (s *Session) Hash() string {
	return hex.EncodeToString(s.hash[:])
}

// ShortHash returns the first 8 hex digits of the hash.
func (s *Session) ShortHash() string {
	return s.Hash()[:8]
}

// Output returns a copy of the output program.
func (s *Session) Output() []byte {
	return bytes.Clone(s.output)
}

// Input returns a copy of the input program.
func (s *Session) Input() []byte {
	return bytes.Clone(s.input)
}

type payload struct {
	Hash   yaml.Node `yaml:"hash"`
	Output yaml.Node `yaml:"output"`
	Input  yaml.Node `yaml:"input"`
}

// Parse decodes a YAML or JSON document of the form
//
//	{hash: <hex>, output: <program>, input: <program>}
//
// where a program is either a hex string of raw bytecode or a list of
// instructions for asm.Compile.
func Parse(data []byte) (*Session, error) {
	var p payload
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if p.Hash.Kind != yaml.ScalarNode || p.Hash.ShortTag() != "!!str" {
		return nil, fmt.Errorf("%w: hash must be a hex string", ErrInvalidPayload)
	}
	hash, err := decodeHex(p.Hash.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: hash: %v", ErrInvalidPayload, err)
	}

	output, err := program("output", &p.Output, vm.OutputBase)
	if err != nil {
		return nil, err
	}
	input, err := program("input", &p.Input, vm.InputBase)
	if err != nil {
		return nil, err
	}

	return New(hash, output, input)
}

// Load reads and parses a session file.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func program(name string, node *yaml.Node, base int) ([]byte, error) {
	switch {
	case node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str":
		code, err := decodeHex(node.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, name, err)
		}
		return code, nil

	case node.Kind == yaml.SequenceNode:
		var items []any
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, name, err)
		}
		code, err := asm.Compile(items, base)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, name, err)
		}
		return code, nil

	case node.Kind == 0:
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPayload, name)

	default:
		return nil, fmt.Errorf("%w: %s must be a hex string or a list of instructions", ErrInvalidPayload, name)
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
