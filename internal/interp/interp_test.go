package interp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	bferrors "bfopt/internal/errors"
	"bfopt/internal/optimizer"
	"bfopt/internal/parser"
	"bfopt/ir"
)

func run(t *testing.T, src string, input []byte, level optimizer.Level, maxIter uint64) ([]byte, error) {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	opt := optimizer.Optimize(prog, level)
	in := New(maxIter)
	return in.Run(opt, NewInputStream(input))
}

func TestScenarios(t *testing.T) {
	// The six concrete scenarios from the spec's test table, run at every
	// optimization level to exercise semantic equivalence (invariant 3).
	cases := []struct {
		name    string
		src     string
		input   []byte
		want    []byte
		wantErr bferrors.Kind
	}{
		{name: "ascii_A", src: "++++++++[>++++++++<-]>+.", want: []byte{65}},
		{name: "echo", src: ",.", input: []byte{72}, want: []byte{72}},
		{name: "add_with_carry", src: ",>,[-<+>]<.[-]", input: []byte{200, 100}, want: []byte{44}},
		{name: "infinite_loop", src: "+[]", wantErr: bferrors.MaxIterationsExceeded},
		{name: "clear_then_set", src: "[-]+++.", want: []byte{3}},
		{name: "read_with_no_input", src: ",", wantErr: bferrors.OutOfInputs},
	}

	for _, c := range cases {
		for _, level := range []optimizer.Level{optimizer.O0, optimizer.O1, optimizer.O2, optimizer.O3} {
			t.Run(c.name+"/"+level.String(), func(t *testing.T) {
				got, err := run(t, c.src, c.input, level, 10000)
				if c.wantErr != "" {
					var bfErr *bferrors.Error
					if !errors.As(err, &bfErr) || bfErr.Kind != c.wantErr {
						t.Fatalf("got err %v, want kind %s", err, c.wantErr)
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !cmp.Equal(got, c.want) {
					t.Errorf("output mismatch (-want +got):\n%s", cmp.Diff(c.want, got))
				}
			})
		}
	}
}

func TestScenarioZeroResidual(t *testing.T) {
	// Scenario 3, and scenario 1 with a trailing "[-]<" (as written it
	// leaves the pointer at 1 and cell 1 at 65), finish with pointer 0
	// and an all-zero tape at every optimization level. Scenario 5
	// ("[-]+++.") deliberately leaves cell 0 at 3 after printing it, so
	// it is exercised for output only in TestScenarios, not here.
	for _, src := range []string{"++++++++[>++++++++<-]>+.[-]<", ",>,[-<+>]<.[-]"} {
		for _, level := range []optimizer.Level{optimizer.O0, optimizer.O1, optimizer.O2, optimizer.O3} {
			prog, err := parser.Parse(src)
			if err != nil {
				t.Fatal(err)
			}
			opt := optimizer.Optimize(prog, level)
			in := New(10000)
			input := []byte{200, 100}
			if _, err := in.Run(opt, NewInputStream(input)); err != nil {
				t.Fatalf("%s/%s: %v", src, level, err)
			}
			if in.Pointer != 0 {
				t.Errorf("%s/%s: pointer = %d, want 0", src, level, in.Pointer)
			}
			if shrunk := in.ShrinkMemory(); len(shrunk) != 1 || shrunk[0] != 0 {
				t.Errorf("%s/%s: residual memory = %v, want [0]", src, level, shrunk)
			}
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	in := New(1000)
	in.Tape = make([]byte, 4)
	prog := []ir.Instr{ir.Move{Over: 10}, ir.Add{X: 1, Offset: 0}}
	_, err := in.Run(prog, NewInputStream(nil))
	var bfErr *bferrors.Error
	if !errors.As(err, &bfErr) || bfErr.Kind != bferrors.OutOfBounds {
		t.Fatalf("got %v, want OutOfBounds", err)
	}
}

func TestWrappingArithmetic(t *testing.T) {
	in := New(1000)
	prog := []ir.Instr{ir.Exact{X: 250}, ir.Add{X: 10}}
	if _, err := in.Run(prog, NewInputStream(nil)); err != nil {
		t.Fatal(err)
	}
	if got := in.Tape[0]; got != 4 { // (250 + 10) mod 256 == 4
		t.Errorf("Tape[0] = %d, want 4", got)
	}
}

func TestMulWrapping(t *testing.T) {
	in := New(1000)
	in.Tape[0] = 5
	in.Tape[1] = 200
	prog := []ir.Instr{ir.Mul{TargetDelta: 1, Multiplier: 100, BaseOffset: 0}}
	if _, err := in.Run(prog, NewInputStream(nil)); err != nil {
		t.Fatal(err)
	}
	// cell[1] += cell[0] * 100 = 200 + 500 = 700 mod 256 = 188
	if got := in.Tape[1]; got != 188 {
		t.Errorf("Tape[1] = %d, want 188", got)
	}
}

func TestReset(t *testing.T) {
	in := New(1000)
	in.Tape[5] = 42
	in.Pointer = 5
	in.Iterations = 3
	in.Reset()
	if in.Pointer != 0 || in.Iterations != 0 {
		t.Errorf("Reset left Pointer=%d Iterations=%d", in.Pointer, in.Iterations)
	}
	for i, b := range in.Tape {
		if b != 0 {
			t.Fatalf("Reset left Tape[%d] = %d", i, b)
		}
	}
	if in.MaxIterations != 1000 {
		t.Errorf("Reset changed MaxIterations to %d", in.MaxIterations)
	}
}

func TestShrinkMemoryAllZero(t *testing.T) {
	in := New(1000)
	got := in.ShrinkMemory()
	want := []byte{0}
	if !cmp.Equal(got, want) {
		t.Errorf("ShrinkMemory() = %v, want %v", got, want)
	}
}

func TestInputStreamExhaustion(t *testing.T) {
	s := NewInputStream([]byte{1, 2})
	for _, want := range []byte{1, 2} {
		b, ok := s.Next()
		if !ok || b != want {
			t.Fatalf("Next() = (%d, %v), want (%d, true)", b, ok, want)
		}
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("Next() after exhaustion reported ok")
	}
}
