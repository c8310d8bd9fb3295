// Package parser implements O0: translation of Brainfuck source text
// into the unoptimized IR tree, with brace matching and the zero-op
// post-filter.
package parser

import (
	"bfopt/internal/errors"
	"bfopt/ir"
)

// Parse translates src into an IR tree with no optimization applied.
// Every character other than +-><.,[] is a comment and is ignored.
// Returns *errors.Error (Kind == errors.UnbalancedBrackets) if brackets
// do not match.
func Parse(src string) ([]ir.Instr, error) {
	// stack[0] is the root scope; '[' pushes a new scope, ']' pops one
	// and wraps it in a Loop appended to the new top.
	stack := [][]ir.Instr{{}}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '[':
			stack = append(stack, []ir.Instr{})
		case ']':
			if len(stack) < 2 {
				return nil, errors.NewUnbalancedBrackets(i)
			}
			body := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top := len(stack) - 1
			stack[top] = append(stack[top], ir.Loop{Over: 0, Body: body})
		default:
			if instr, ok := ir.FromChar(c); ok {
				top := len(stack) - 1
				stack[top] = append(stack[top], instr)
			}
			// any other byte is a comment; ignored
		}
	}

	if len(stack) != 1 {
		return nil, errors.NewUnbalancedBrackets(len(src))
	}

	return postFilter(stack[0]), nil
}

// postFilter recursively removes Add{X:0} and Move{Over:0} nodes,
// maintaining the zero-op absence invariant through Loop bodies.
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
