package optimizer

import "bfopt/ir"

// Peephole runs O1: adjacent-instruction fusion, clear-idiom recognition,
// and dead-loop elimination, over O0 output.
func Peephole(prog []ir.Instr) []ir.Instr {
	return postFilter(foldScope(prog, true))
}

// foldScope walks one scope left-to-right, folding each incoming
// instruction against the last one emitted so far. programStart is true
// only for the outermost call, which prepends (and later strips) a
// virtual Exact{0,0} so rules that key off "cell known to be 0" fire at
// the true start of the program.
func foldScope(scope []ir.Instr, programStart bool) []ir.Instr {
	result := make([]ir.Instr, 0, len(scope)+1)
	if programStart {
		result = append(result, ir.Exact{X: 0, Offset: 0})
	}

	for _, cur := range scope {
		if len(result) == 0 {
			result = append(result, cur)
			continue
		}

		last := result[len(result)-1]
		switch lv := last.(type) {
		case ir.Add:
			if lv.Offset == 0 {
				if a, ok := cur.(ir.Add); ok && a.Offset == 0 {
					result[len(result)-1] = ir.Add{X: lv.X + a.X, Offset: 0}
					continue
				}
				if _, ok := cur.(ir.Read); ok {
					// Add followed by Read: the Read overwrites it.
					result[len(result)-1] = cur
					continue
				}
			}
		case ir.Move:
			if m, ok := cur.(ir.Move); ok {
				result[len(result)-1] = ir.Move{Over: lv.Over + m.Over}
				continue
			}
		case ir.Print:
			if p, ok := cur.(ir.Print); ok {
				result[len(result)-1] = ir.Print{Times: lv.Times + p.Times, Offset: lv.Offset}
				continue
			}
		case ir.Exact:
			if lv.X == 0 && lv.Offset == 0 {
				if _, ok := cur.(ir.Read); ok {
					// Clear followed by Read: the Read overwrites it.
					result[len(result)-1] = cur
					continue
				}
				if _, ok := cur.(ir.Loop); ok {
					// The cell is known 0, so the loop never runs.
					continue
				}
			}
		case ir.Loop:
			if _, ok := cur.(ir.Loop); ok {
				// A loop immediately following a loop is unreachable:
				// the first loop only exits once its cell is 0.
				continue
			}
		}

		if loop, ok := cur.(ir.Loop); ok {
			if isClearIdiom(loop.Body) {
				result = append(result, ir.Exact{X: 0, Offset: 0})
			} else {
				result = append(result, ir.Loop{Over: 0, Body: foldScope(loop.Body, false)})
			}
			continue
		}

		result = append(result, cur)
	}

	if programStart && len(result) > 0 {
		if e, ok := result[0].(ir.Exact); ok && e.X == 0 && e.Offset == 0 {
			result = result[1:]
		}
	}

	return result
}

// isClearIdiom reports whether body is exactly [-] or [+]: a loop whose
// sole effect is zeroing the current cell.
func isClearIdiom(body []ir.Instr) bool {
	if len(body) != 1 {
		return false
	}
	a, ok := body[0].(ir.Add)
	return ok && a.Offset == 0 && (a.X == 1 || a.X == -1)
}

// postFilter strips zero-result Add/Move nodes, recursing into loops.
func postFilter(prog []ir.Instr) []ir.Instr {
	out := make([]ir.Instr, 0, len(prog))
	for _, instr := range prog {
		if loop, ok := instr.(ir.Loop); ok {
			out = append(out, ir.Loop{Over: loop.Over, Body: postFilter(loop.Body)})
			continue
		}
		if ir.IsZero(instr) {
			continue
		}
		out = append(out, instr)
	}
	return out
}
