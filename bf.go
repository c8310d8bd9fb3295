// Package bf is the public entry point: parse, optimize, and execute
// Brainfuck source, or run it against a table of input/output pairs and
// collect every failure a test case exhibits.
package bf

import (
	"bytes"
	"fmt"

	"bfopt/internal/interp"
	"bfopt/internal/optimizer"
	"bfopt/internal/parser"
)

// ParseAndRun parses src, optimizes it to level, and executes it once
// against input, returning whatever output was emitted before the
// program halted or failed.
func ParseAndRun(src string, input []byte, level optimizer.Level, maxIterations uint64) ([]byte, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	optimized := optimizer.Optimize(prog, level)
	in := interp.New(maxIterations)
	return in.Run(optimized, interp.NewInputStream(input))
}

// FailureKind identifies which of the test harness's non-exclusive
// failure conditions a case exhibited.
type FailureKind string

const (
	FailureRuntimeError    FailureKind = "RuntimeError"
	FailureNonZeroPointer  FailureKind = "NonZeroPointer"
	FailureNonZeroMemory   FailureKind = "NonZeroMemory"
	FailureIncorrectOutput FailureKind = "IncorrectOutput"
	FailureOptimizerError  FailureKind = "OptimizerError"
)

// TestFailure reports one failure condition for one case. CaseIndex is
// -1 for a failure that applies to the whole run (a parse error, which
// aborts before any case executes).
type TestFailure struct {
	Kind      FailureKind
	CaseIndex int

	Err     error  // set for RuntimeError and OptimizerError
	Pointer int32  // set for NonZeroPointer
	Memory  []byte // set for NonZeroMemory (the shrunk tape)
	Output  []byte // set for IncorrectOutput (the actual output)
}

func (f TestFailure) String() string {
	switch f.Kind {
	case FailureOptimizerError:
		return fmt.Sprintf("optimizer error: %v", f.Err)
	case FailureRuntimeError:
		return fmt.Sprintf("case %d: runtime error: %v", f.CaseIndex, f.Err)
	case FailureNonZeroPointer:
		return fmt.Sprintf("case %d: pointer ended at %d, want 0", f.CaseIndex, f.Pointer)
	case FailureNonZeroMemory:
		return fmt.Sprintf("case %d: residual memory %v, want zero", f.CaseIndex, f.Memory)
	case FailureIncorrectOutput:
		return fmt.Sprintf("case %d: output %v did not match expected", f.CaseIndex, f.Output)
	default:
		return fmt.Sprintf("case %d: unknown failure", f.CaseIndex)
	}
}

// Test optimizes src once, then runs it against each (inputsSeq[i],
// expectedOutputsSeq[i]) pair, collecting every applicable failure for
// every pair — a runtime error, a nonzero final pointer, nonzero
// residual memory, and an output mismatch are not mutually exclusive,
// so all that apply are reported. The interpreter is reset between
// pairs. inputsSeq and expectedOutputsSeq must have equal length.
func Test(src string, inputsSeq, expectedOutputsSeq [][]byte, level optimizer.Level, maxIterations uint64) []TestFailure {
	prog, err := parser.Parse(src)
	if err != nil {
		return []TestFailure{{Kind: FailureOptimizerError, CaseIndex: -1, Err: err}}
	}
	optimized := optimizer.Optimize(prog, level)

	var failures []TestFailure
	in := interp.New(maxIterations)

	for i := range inputsSeq {
		in.Reset()
		output, runErr := in.Run(optimized, interp.NewInputStream(inputsSeq[i]))

		if runErr != nil {
			failures = append(failures, TestFailure{Kind: FailureRuntimeError, CaseIndex: i, Err: runErr})
		}
		if in.Pointer != 0 {
			failures = append(failures, TestFailure{Kind: FailureNonZeroPointer, CaseIndex: i, Pointer: in.Pointer})
		}
		if mem := in.ShrinkMemory(); !(len(mem) == 1 && mem[0] == 0) {
			failures = append(failures, TestFailure{Kind: FailureNonZeroMemory, CaseIndex: i, Memory: mem})
		}
		if i < len(expectedOutputsSeq) && !bytes.Equal(output, expectedOutputsSeq[i]) {
			failures = append(failures, TestFailure{Kind: FailureIncorrectOutput, CaseIndex: i, Output: output})
		}
	}

	return failures
}
