package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hackchain/hackchain-debugger/debugger/vm"
)

const testHash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func TestLoad_StructuredPrograms(t *testing.T) {
	s, err := Load("testdata/countdown.yaml")
	require.NoError(t, err)

	assert.Equal(t, testHash, s.Hash())
	assert.Equal(t, "9f86d081", s.ShortHash())
	assert.Len(t, s.Output(), 18)
	assert.Len(t, s.Input(), 14)
}

func TestLoad_RawBytesFromJSON(t *testing.T) {
	s, err := Load("testdata/raw.json")
	require.NoError(t, err)

	assert.Equal(t, []byte{0x02, 0x00, 0x01, 0x00}, s.Output())
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x00}, s.Input())
}

func TestLoad_EmptyInput(t *testing.T) {
	s, err := Load("testdata/spinner.yaml")
	require.NoError(t, err)

	assert.Empty(t, s.Input())
	assert.Len(t, s.Output(), 4)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPayload)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not yaml", "{{{"},
		{"missing hash", `{"output": "00", "input": "00"}`},
		{"numeric hash", `{"hash": 1234, "output": "00", "input": "00"}`},
		{"hash not hex", `{"hash": "zz", "output": "00", "input": "00"}`},
		{"hash too short", `{"hash": "abcd", "output": "00", "input": "00"}`},
		{"missing output", `{"hash": "` + testHash + `", "input": "00"}`},
		{"missing input", `{"hash": "` + testHash + `", "output": "00"}`},
		{"output is a map", `{"hash": "` + testHash + `", "output": {"a": 1}, "input": "00"}`},
		{"output is a number", `{"hash": "` + testHash + `", "output": 12, "input": "00"}`},
		{"output odd hex", `{"hash": "` + testHash + `", "output": "012", "input": "00"}`},
		{"input does not compile", `{"hash": "` + testHash + `", "output": "00", "input": [["frob"]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestParse_InputCompiledAtInputBase(t *testing.T) {
	payload := `{"hash": "` + testHash + `", "output": "", "input": ["here:", ["jmp", "here"]]}`

	s, err := Parse([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, []byte{0x30, 0x00, 0x80, 0x00}, s.Input())
	assert.Empty(t, s.Output())
}

func TestNew_Validation(t *testing.T) {
	hash := make([]byte, HashSize)

	_, err := New(hash[:4], nil, nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = New(hash, make([]byte, vm.RegionSize+1), nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = New(hash, nil, make([]byte, vm.RegionSize+1))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	s, err := New(hash, make([]byte, vm.RegionSize), nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", HashSize*2), s.Hash())
}

func TestSession_IsImmutable(t *testing.T) {
	hash := make([]byte, HashSize)
	output := []byte{0x01, 0x00}

	s, err := New(hash, output, nil)
	require.NoError(t, err)

	output[0] = 0xFF
	hash[0] = 0xFF
	assert.Equal(t, []byte{0x01, 0x00}, s.Output())

	s.Output()[0] = 0xEE
	assert.Equal(t, []byte{0x01, 0x00}, s.Output())
	assert.Equal(t, "00000000", s.ShortHash())
}
