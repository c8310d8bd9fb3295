// Package interp evaluates optimized IR over a bounded byte tape.
//
// An Interpreter owns one tape and is not safe for concurrent use: the
// spec's concurrency model is single-threaded throughout, and the only
// cooperative cancellation point is the iteration budget.
package interp

import (
	"bfopt/internal/errors"
	"bfopt/ir"
)

// DefaultTapeSize is the tape length used by New unless overridden.
const DefaultTapeSize = 65536

// InputStream is a one-shot, forward-only sequence of input bytes.
type InputStream struct {
	data []byte
	pos  int
}

// NewInputStream wraps data as an InputStream that yields its bytes in
// order, one per Read instruction, then reports exhaustion.
func NewInputStream(data []byte) *InputStream {
	return &InputStream{data: data}
}

// Next returns the next byte and true, or (0, false) once exhausted.
func (s *InputStream) Next() (byte, bool) {
	if s == nil || s.pos >= len(s.data) {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++
	return b, true
}

// Interpreter holds the mutable state of one execution: a fixed-size
// tape, a signed data pointer, and an iteration counter checked against
// a configured budget.
type Interpreter struct {
	Tape          []byte
	Pointer       int32
	Iterations    uint64
	MaxIterations uint64
}

// New returns an Interpreter with a zeroed tape of DefaultTapeSize cells
// and the given iteration budget.
func New(maxIterations uint64) *Interpreter {
	return &Interpreter{
		Tape:          make([]byte, DefaultTapeSize),
		MaxIterations: maxIterations,
	}
}

// Reset zeroes the tape, pointer, and iteration counter. MaxIterations is
// left unchanged.
func (in *Interpreter) Reset() {
	for i := range in.Tape {
		in.Tape[i] = 0
	}
	in.Pointer = 0
	in.Iterations = 0
}

// Run executes program against input, returning every byte emitted
// before either the program halted normally or a runtime error occurred.
// A non-nil error is always one of the *errors.Error kinds defined in
// package errors.
func (in *Interpreter) Run(program []ir.Instr, input *InputStream) ([]byte, error) {
	var output []byte
	err := in.execList(program, input, &output)
	return output, err
}

func (in *Interpreter) execList(list []ir.Instr, input *InputStream, output *[]byte) error {
	for _, instr := range list {
		if err := in.tick(); err != nil {
			return err
		}
		if err := in.exec(instr, input, output); err != nil {
			return err
		}
	}
	return nil
}

// tick charges one unit of the iteration budget, shared by every
// instruction dispatch and every loop-condition check.
func (in *Interpreter) tick() error {
	in.Iterations++
	if in.Iterations > in.MaxIterations {
		return errors.NewMaxIterationsExceeded(in.MaxIterations)
	}
	return nil
}

func (in *Interpreter) exec(instr ir.Instr, input *InputStream, output *[]byte) error {
	switch v := instr.(type) {
	case ir.Add:
		idx, err := in.bounds(v.Offset)
		if err != nil {
			return err
		}
		in.Tape[idx] = byte(int32(in.Tape[idx]) + v.X)

	case ir.Move:
		in.Pointer += v.Over

	case ir.Print:
		idx, err := in.bounds(v.Offset)
		if err != nil {
			return err
		}
		b := in.Tape[idx]
		for i := 0; i < v.Times; i++ {
			*output = append(*output, b)
		}

	case ir.Read:
		idx, err := in.bounds(v.Offset)
		if err != nil {
			return err
		}
		b, ok := input.Next()
		if !ok {
			return errors.NewOutOfInputs()
		}
		in.Tape[idx] = b

	case ir.Exact:
		idx, err := in.bounds(v.Offset)
		if err != nil {
			return err
		}
		in.Tape[idx] = byte(v.X)

	case ir.Loop:
		in.Pointer += v.Over
		for {
			if err := in.tick(); err != nil {
				return err
			}
			idx, err := in.bounds(0)
			if err != nil {
				return err
			}
			if in.Tape[idx] == 0 {
				return nil
			}
			if err := in.execList(v.Body, input, output); err != nil {
				return err
			}
		}

	case ir.Mul:
		src, err := in.bounds(v.BaseOffset)
		if err != nil {
			return err
		}
		dst, err := in.bounds(v.BaseOffset + v.TargetDelta)
		if err != nil {
			return err
		}
		product := int32(in.Tape[src]) * v.Multiplier
		in.Tape[dst] = byte(int32(in.Tape[dst]) + product)

	default:
		return errors.NewOptimizerInvariant("interp: unhandled IR variant")
	}
	return nil
}

// bounds resolves offset relative to the current pointer and checks it
// against the tape, returning the resolved index.
func (in *Interpreter) bounds(offset int32) (int32, error) {
	idx := in.Pointer + offset
	if idx < 0 || int(idx) >= len(in.Tape) {
		return 0, errors.NewOutOfBounds(idx)
	}
	return idx, nil
}

// ShrinkMemory returns the tape truncated to [0, highest nonzero index],
// or a single zero byte if the whole tape is zero. It never mutates the
// interpreter's own tape.
func (in *Interpreter) ShrinkMemory() []byte {
	last := -1
	for i, b := range in.Tape {
		if b != 0 {
			last = i
		}
	}
	if last < 0 {
		return []byte{0}
	}
	shrunk := make([]byte, last+1)
	copy(shrunk, in.Tape[:last+1])
	return shrunk
}
