// Package repl implements a line-at-a-time Brainfuck shell: each line is
// parsed and optimized independently, but every line runs against the
// same interp.Interpreter, so the tape and pointer persist across lines
// the way a REPL's variables would.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"bfopt/internal/interp"
	"bfopt/internal/optimizer"
	"bfopt/internal/parser"
)

// Start runs the REPL loop, reading lines from in and writing prompts
// and output to out, until in is exhausted or a line is "exit".
func Start(in io.Reader, out io.Writer, level optimizer.Level, maxIterations uint64) {
	fmt.Fprintln(out, "bf REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(in)

	bfInterp := interp.New(maxIterations)

	for {
		fmt.Fprint(out, ">>> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" {
			break
		}

		prog, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		optimized := optimizer.Optimize(prog, level)
		bfInterp.Iterations = 0
		output, err := bfInterp.Run(optimized, interp.NewInputStream(nil))
		if len(output) > 0 {
			fmt.Fprintf(out, "%s\n", output)
		}
		if err != nil {
			fmt.Fprintln(out, err)
		}
	}
}
