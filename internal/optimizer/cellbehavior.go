package optimizer

import (
	"sort"

	"bfopt/ir"
)

// behaviorKind distinguishes a pending relative delta from a cell whose
// value is fully known, per §4.D / §9's "Behavior" abstraction.
type behaviorKind int

const (
	behaviorAdd behaviorKind = iota
	behaviorExact
)

type behavior struct {
	kind behaviorKind
	n    int32
}

// CellBehavior runs O2: it first runs O1 (Peephole), then an abstract
// interpretation of each straight-line region that hoists pending
// writes into offset-carrying Add/Exact instructions and folds the
// region's net pointer displacement into Loop.Over instead of emitting
// a Move for it.
func CellBehavior(prog []ir.Instr) []ir.Instr {
	return postFilter(cellBehaviorRegion(Peephole(prog)))
}

// cellBehaviorRegion processes one straight-line region (the top level,
// or one loop body), starting fresh with offset 0 and no pending
// behaviors, per instruction.
func cellBehaviorRegion(region []ir.Instr) []ir.Instr {
	result := make([]ir.Instr, 0, len(region))
	behaviors := make(map[int32]behavior)
	var offset int32

	flush := func() {
		for _, off := range sortedOffsets(behaviors) {
			b := behaviors[off]
			if b.kind == behaviorExact {
				result = append(result, ir.Exact{X: b.n, Offset: off})
			} else {
				result = append(result, ir.Add{X: b.n, Offset: off})
			}
		}
		clear(behaviors)
	}

	for _, instr := range region {
		switch v := instr.(type) {
		case ir.Move:
			offset += v.Over

		case ir.Add:
			if existing, ok := behaviors[offset]; ok {
				behaviors[offset] = behavior{kind: existing.kind, n: existing.n + v.X}
			} else {
				behaviors[offset] = behavior{kind: behaviorAdd, n: v.X}
			}

		case ir.Exact:
			// O1 output only ever carries Exact{X:0, Offset:0} (the
			// clear idiom and the implicit program-start clear).
			behaviors[offset] = behavior{kind: behaviorExact, n: 0}

		case ir.Read:
			delete(behaviors, offset)
			result = append(result, ir.Read{Offset: offset})

		case ir.Print:
			if b, ok := behaviors[offset]; ok {
				if b.kind == behaviorExact {
					result = append(result, ir.Exact{X: b.n, Offset: offset})
				} else {
					result = append(result, ir.Add{X: b.n, Offset: offset})
				}
				delete(behaviors, offset)
			}
			result = append(result, ir.Print{Times: v.Times, Offset: offset})

		case ir.Loop:
			if b, ok := behaviors[offset]; ok && b.kind == behaviorExact && b.n == 0 {
				// The cell this loop tests is known to be 0: dead loop.
				continue
			}
			flush()
			result = append(result, ir.Loop{Over: offset, Body: cellBehaviorRegion(v.Body)})
			offset = 0

		default:
			// O1 output never contains Mul; any other shape here is a
			// programmer error in an earlier pass.
			result = append(result, instr)
		}
	}

	flush()
	if offset != 0 {
		result = append(result, ir.Move{Over: offset})
	}

	return result
}

func sortedOffsets(behaviors map[int32]behavior) []int32 {
	offsets := make([]int32, 0, len(behaviors))
	for off := range behaviors {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}
