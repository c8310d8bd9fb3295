// Package optimizer implements the O1, O2, and O3 rewrite passes over
// the IR produced by the parser. Each pass is a pure function from an
// IR list to an IR list; Optimize chains them according to the
// requested Level.
package optimizer

import "bfopt/ir"

// Level selects how aggressively a program is optimized before
// execution. Each level's output is produced by running every lower
// level's pass first (O3 runs O2's pass on O1's output on O0's output).
type Level int

const (
	O0 Level = iota
	O1
	O2
	O3
)

func (l Level) String() string {
	switch l {
	case O0:
		return "O0"
	case O1:
		return "O1"
	case O2:
		return "O2"
	case O3:
		return "O3"
	default:
		return "O?"
	}
}

// Optimize rewrites prog, parsed at O0, up to the requested level.
func Optimize(prog []ir.Instr, level Level) []ir.Instr {
	switch level {
	case O0:
		return prog
	case O1:
		return Peephole(prog)
	case O2:
		return CellBehavior(prog)
	case O3:
		return MultiplyLoop(prog)
	default:
		return prog
	}
}
