// Package formatter renders an IR tree as indented, human-readable text
// for the dump subcommand and for debugging optimizer passes.
package formatter

import (
	"fmt"
	"strings"

	"bfopt/ir"
)

type Formatter struct {
	indent    int
	indentStr string
	output    strings.Builder
	lineBreak string
}

func NewFormatter() *Formatter {
	return &Formatter{
		indentStr: "    ",
		lineBreak: "\n",
	}
}

// Format renders prog as one line per instruction, indenting Loop bodies
// one level deeper than their header.
func (f *Formatter) Format(prog []ir.Instr) string {
	f.output.Reset()
	f.indent = 0
	f.formatList(prog)
	return f.output.String()
}

func (f *Formatter) formatList(prog []ir.Instr) {
	for _, instr := range prog {
		f.formatInstr(instr)
	}
}

func (f *Formatter) writeIndent() {
	for i := 0; i < f.indent; i++ {
		f.output.WriteString(f.indentStr)
	}
}

func (f *Formatter) formatInstr(instr ir.Instr) {
	f.writeIndent()
	switch v := instr.(type) {
	case ir.Add:
		fmt.Fprintf(&f.output, "Add{x:%d, offset:%d}", v.X, v.Offset)
		f.output.WriteString(f.lineBreak)

	case ir.Move:
		fmt.Fprintf(&f.output, "Move{over:%d}", v.Over)
		f.output.WriteString(f.lineBreak)

	case ir.Print:
		fmt.Fprintf(&f.output, "Print{times:%d, offset:%d}", v.Times, v.Offset)
		f.output.WriteString(f.lineBreak)

	case ir.Read:
		fmt.Fprintf(&f.output, "Read{offset:%d}", v.Offset)
		f.output.WriteString(f.lineBreak)

	case ir.Exact:
		fmt.Fprintf(&f.output, "Exact{x:%d, offset:%d}", v.X, v.Offset)
		f.output.WriteString(f.lineBreak)

	case ir.Mul:
		fmt.Fprintf(&f.output, "Mul{target_delta:%d, multiplier:%d, base_offset:%d}", v.TargetDelta, v.Multiplier, v.BaseOffset)
		f.output.WriteString(f.lineBreak)

	case ir.Loop:
		fmt.Fprintf(&f.output, "Loop{over:%d} {", v.Over)
		f.output.WriteString(f.lineBreak)

		f.indent++
		f.formatList(v.Body)
		f.indent--

		f.writeIndent()
		f.output.WriteString("}")
		f.output.WriteString(f.lineBreak)
	}
}

// Dump is a convenience wrapper around Format for callers that don't
// need to reuse a Formatter across calls.
func Dump(prog []ir.Instr) string {
	return NewFormatter().Format(prog)
}
