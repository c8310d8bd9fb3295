package optimizer

import "bfopt/ir"

// MultiplyLoop runs O3: it first runs O2 (CellBehavior), then lowers
// additive copy/multiply loops to Mul instructions (sub-pass 1), then
// folds every Move into the offset of the instructions that follow it
// (sub-pass 2).
//
// Open question resolved (see SPEC_FULL.md / DESIGN.md): a loop body
// containing an Exact node is never lowered, even if it also contains
// the Add{-1,0} counter marker — it recurses as an ordinary Loop
// instead. Exact is unconditional; lowering it into a one-shot write
// would change behavior for any iteration count other than exactly 1,
// so the lowering condition in this implementation requires the body
// to consist solely of Add instructions.
func MultiplyLoop(prog []ir.Instr) []ir.Instr {
	o2 := CellBehavior(prog)
	lowered := lowerMultiplyLoops(o2)
	folded := foldMovesIntoOffsets(lowered)
	return postFilter(folded)
}

// lowerMultiplyLoops is sub-pass 1.
func lowerMultiplyLoops(prog []ir.Instr) []ir.Instr {
	out := make([]ir.Instr, 0, len(prog))
	for _, instr := range prog {
		loop, ok := instr.(ir.Loop)
		if !ok {
			out = append(out, instr)
			continue
		}
		if isAdditiveCopyLoop(loop.Body) {
			out = append(out, lowerOne(loop)...)
		} else {
			out = append(out, ir.Loop{Over: loop.Over, Body: lowerMultiplyLoops(loop.Body)})
		}
	}
	return out
}

// isAdditiveCopyLoop reports whether body is entirely Add instructions
// and decrements the counter cell (offset 0) by exactly 1.
func isAdditiveCopyLoop(body []ir.Instr) bool {
	sawCounter := false
	for _, instr := range body {
		a, ok := instr.(ir.Add)
		if !ok {
			return false
		}
		if a.X == -1 && a.Offset == 0 {
			sawCounter = true
		}
	}
	return sawCounter
}

// lowerOne converts one additive copy/multiply loop body into its
// equivalent straight-line Mul instructions, per §4.E / §9.
func lowerOne(loop ir.Loop) []ir.Instr {
	out := make([]ir.Instr, 0, len(loop.Body)+2)
	for _, instr := range loop.Body {
		a := instr.(ir.Add)
		if a.X == -1 && a.Offset == 0 {
			continue // the decrement-counter marker itself contributes nothing
		}
		out = append(out, ir.Mul{TargetDelta: a.Offset, Multiplier: a.X, BaseOffset: loop.Over})
	}
	out = append(out, ir.Exact{X: 0, Offset: loop.Over})
	out = append(out, ir.Move{Over: loop.Over})
	return out
}

// foldMovesIntoOffsets is sub-pass 2.
func foldMovesIntoOffsets(prog []ir.Instr) []ir.Instr {
	out := make([]ir.Instr, 0, len(prog))
	var running int32

	for _, instr := range prog {
		switch v := instr.(type) {
		case ir.Move:
			running += v.Over
		case ir.Add:
			out = append(out, ir.Add{X: v.X, Offset: v.Offset + running})
		case ir.Print:
			out = append(out, ir.Print{Times: v.Times, Offset: v.Offset + running})
		case ir.Read:
			out = append(out, ir.Read{Offset: v.Offset + running})
		case ir.Exact:
			out = append(out, ir.Exact{X: v.X, Offset: v.Offset + running})
		case ir.Mul:
			out = append(out, ir.Mul{TargetDelta: v.TargetDelta, Multiplier: v.Multiplier, BaseOffset: v.BaseOffset + running})
		case ir.Loop:
			out = append(out, ir.Loop{Over: v.Over + running, Body: foldMovesIntoOffsets(v.Body)})
			running = 0
		}
	}

	if running != 0 {
		out = append(out, ir.Move{Over: running})
	}

	return out
}
