// cmd/bfrun/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	bf "bfopt"
	"bfopt/internal/diffuzz"
	"bfopt/internal/formatter"
	"bfopt/internal/optimizer"
	"bfopt/internal/parser"
	"bfopt/internal/repl"
	"bfopt/internal/report"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"t": "test",
	"d": "dump",
	"f": "fuzz",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("bfrun", version)
	case "run":
		runCommand(args[1:])
	case "test":
		testCommand(args[1:])
	case "dump":
		dumpCommand(args[1:])
	case "repl":
		replCommand(args[1:])
	case "fuzz":
		fuzzCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("bfrun - optimizing Brainfuck compiler and interpreter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bfrun run <file.bf> [-O0|-O1|-O2|-O3] [-max-iter N]   Run a program         (alias: r)")
	fmt.Println("  bfrun test <file.bf> [-O0|-O1|-O2|-O3]               Check one empty-input run (alias: t)")
	fmt.Println("  bfrun dump <file.bf> [-O0|-O1|-O2|-O3]               Print optimized IR    (alias: d)")
	fmt.Println("  bfrun repl [-O0|-O1|-O2|-O3]                         Start the REPL        (alias: i)")
	fmt.Println("  bfrun fuzz [-n N] [-concurrency N] [-seed N]         Differential fuzz     (alias: f)")
	fmt.Println()
	fmt.Println("  bfrun --version                                      Show the version")
}

func parseLevelFlag(args []string, def optimizer.Level) (optimizer.Level, []string) {
	for i, a := range args {
		switch a {
		case "-O0":
			return optimizer.O0, append(args[:i:i], args[i+1:]...)
		case "-O1":
			return optimizer.O1, append(args[:i:i], args[i+1:]...)
		case "-O2":
			return optimizer.O2, append(args[:i:i], args[i+1:]...)
		case "-O3":
			return optimizer.O3, append(args[:i:i], args[i+1:]...)
		}
	}
	return def, args
}

func fatalf(format string, a ...any) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31mbfrun: "+format+"\x1b[0m\n", a...)
	} else {
		fmt.Fprintf(os.Stderr, "bfrun: "+format+"\n", a...)
	}
	os.Exit(1)
}

func runCommand(args []string) {
	level, args := parseLevelFlag(args, optimizer.O2)
	if len(args) < 1 {
		fatalf("usage: bfrun run <file.bf> [-O0|-O1|-O2|-O3]")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fatalf("reading %s: %v", args[0], err)
	}

	var input []byte
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		input, _ = io.ReadAll(os.Stdin)
	}

	maxIter := uint64(10_000_000)
	for i := 1; i+1 < len(args); i++ {
		if args[i] == "-max-iter" {
			fmt.Sscanf(args[i+1], "%d", &maxIter)
		}
	}

	output, err := bf.ParseAndRun(string(src), input, level, maxIter)
	os.Stdout.Write(output)
	if err != nil {
		fatalf("%v", err)
	}
}

func dumpCommand(args []string) {
	level, args := parseLevelFlag(args, optimizer.O2)
	if len(args) < 1 {
		fatalf("usage: bfrun dump <file.bf> [-O0|-O1|-O2|-O3]")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fatalf("reading %s: %v", args[0], err)
	}
	prog, err := parser.Parse(string(src))
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Print(formatter.Dump(optimizer.Optimize(prog, level)))
}

func replCommand(args []string) {
	level, _ := parseLevelFlag(args, optimizer.O2)
	repl.Start(os.Stdin, os.Stdout, level, 1_000_000)
}

func testCommand(args []string) {
	level, args := parseLevelFlag(args, optimizer.O2)
	if len(args) < 1 {
		fatalf("usage: bfrun test <file.bf> [-O0|-O1|-O2|-O3]")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fatalf("reading %s: %v", args[0], err)
	}

	// No cases file is read: the program runs once against empty input,
	// expecting no output, a zero pointer, and an all-zero tape.
	failures := bf.Test(string(src), [][]byte{{}}, [][]byte{{}}, level, 10_000_000)

	rep := report.New(os.Stdout, report.FormatText)
	_ = rep.WriteTestReport(report.TestReport{
		Source:      args[0],
		GeneratedAt: time.Now(),
		CaseCount:   1,
		Failures:    failures,
	})
	if len(failures) > 0 {
		os.Exit(1)
	}
}

func fuzzCommand(args []string) {
	n := 100
	concurrency := 4
	var seed uint64 = 1
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			i++
			fmt.Sscanf(args[i], "%d", &n)
		case "-concurrency":
			i++
			fmt.Sscanf(args[i], "%d", &concurrency)
		case "-seed":
			i++
			fmt.Sscanf(args[i], "%d", &seed)
		}
	}

	sourceRng := rand.New(rand.NewPCG(seed, seed^0x5bd1e995))
	seedRng := rand.New(rand.NewPCG(seed^0x27d4eb2f, seed))

	start := time.Now()
	mismatches, err := diffuzz.FuzzN(context.Background(), n, concurrency, diffuzz.DefaultConfig(), sourceRng, seedRng)
	if err != nil {
		log.Fatal(err)
	}

	rep := report.New(os.Stdout, report.FormatText)
	_ = rep.WriteFuzzReport(report.FuzzReport{
		GeneratedAt: time.Now(),
		CasesRun:    n,
		Elapsed:     time.Since(start),
		Mismatches:  mismatches,
	})
	if len(mismatches) > 0 {
		os.Exit(1)
	}
}
