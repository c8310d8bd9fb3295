// Package diffuzz implements differential fuzzing across the four
// optimization levels: random bracket-balanced programs are generated,
// parsed and optimized at each level, and run against an identical
// replayed input stream, per the equivalence invariant in spec.md §8.
//
// This is a direct port of the original implementation's test.rs
// "specific" function from one-off Rust #[test] functions into a
// reusable harness: same random-source generator, same per-level
// parse-error agreement check, same ChaCha8-seeded input replay, same
// default iteration bound (1,000,000).
package diffuzz

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"bfopt/internal/errors"
	"bfopt/internal/interp"
	"bfopt/internal/optimizer"
	"bfopt/internal/parser"
	"bfopt/ir"
)

// charset is the eight significant Brainfuck characters; random source
// generation draws uniformly from these, exactly as the original
// generator does.
const charset = "+-><.,[]"

// Config bounds one differential run.
type Config struct {
	MaxIterations uint64
	MaxSourceLen  int
}

// DefaultConfig matches the original implementation's fuzzer defaults.
func DefaultConfig() Config {
	return Config{MaxIterations: 1_000_000, MaxSourceLen: 100}
}

// RandomProgram generates a random bracket-balanced source string of
// fewer than cfg.MaxSourceLen characters drawn from charset, retrying until the
// brackets balance — the same rejection-sampling approach as the
// original generator.
func RandomProgram(rng *rand.Rand, cfg Config) string {
	for {
		n := rng.IntN(cfg.MaxSourceLen)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = charset[rng.IntN(len(charset))]
		}
		if balanced(buf) {
			return string(buf)
		}
	}
}

func balanced(src []byte) bool {
	depth := 0
	for _, c := range src {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// levels is the canonical O0..O3 order this package compares.
var levels = []optimizer.Level{optimizer.O0, optimizer.O1, optimizer.O2, optimizer.O3}

// LevelOutcome is one optimization level's result for one run.
type LevelOutcome struct {
	Level  optimizer.Level
	Output []byte
	Err    error
}

// Run is the outcome of one differential-fuzzing case.
type Run struct {
	Source   string
	Seed     [32]byte
	Outcomes []LevelOutcome

	// OutputDisagreement is set if the levels produced different
	// outputs, or different terminal errors, for the same input.
	OutputDisagreement string
}

// Agrees reports whether every level produced the same observable
// result — the equivalence invariant this package exists to check.
func (r *Run) Agrees() bool {
	return r.OutputDisagreement == ""
}

// inputStream generates up to n pseudo-random bytes from a ChaCha8
// source seeded identically across levels, mirroring the original's
// four independently-seeded-but-identical ChaCha8Rng input iterators.
func inputStream(seed [32]byte, n uint64) []byte {
	src := rand.NewChaCha8(seed)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(src.Uint64())
	}
	return buf
}

// One runs a single differential-fuzzing case: src is parsed and
// optimized at every level, and — if all levels agree the source
// parses — each level is executed against an identical replayed input
// stream derived from seed.
func One(ctx context.Context, src string, seed [32]byte, cfg Config) (*Run, error) {
	run := &Run{Source: src, Seed: seed}

	// Parsing (O0) is shared by every level — the four optimizer passes
	// all start from the same O0 tree — so there is no separate
	// per-level parse step to disagree on, satisfying invariant 2 by
	// construction rather than by a runtime check.
	base, err := parser.Parse(src)
	if err != nil {
		for _, level := range levels {
			run.Outcomes = append(run.Outcomes, LevelOutcome{Level: level, Err: err})
		}
		return run, nil
	}

	progs := make(map[optimizer.Level][]ir.Instr, len(levels))
	for _, level := range levels {
		progs[level] = optimizer.Optimize(base, level)
	}

	outcomes := make([]LevelOutcome, len(levels))
	g, gctx := errgroup.WithContext(ctx)
	for i, level := range levels {
		i, level := i, level
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			in := interp.New(cfg.MaxIterations)
			output, err := in.Run(progs[level], interp.NewInputStream(inputStream(seed, cfg.MaxIterations)))
			outcomes[i] = LevelOutcome{Level: level, Output: output, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	run.Outcomes = outcomes

	if msg := disagreement(outcomes); msg != "" {
		run.OutputDisagreement = msg
	}
	return run, nil
}

// disagreement compares terminal errors (by Kind, ignoring
// MaxIterationsExceeded as the spec allows) or, absent any error,
// output bytes, across every outcome.
func disagreement(outcomes []LevelOutcome) string {
	first := outcomes[0]
	firstKind, firstIsBudget := errorKind(first.Err)

	for _, o := range outcomes[1:] {
		kind, isBudget := errorKind(o.Err)
		if firstIsBudget || isBudget {
			// A constant-factor iteration difference between levels can
			// make one hit the budget and another not; not a real
			// disagreement on its own.
			continue
		}
		if kind != firstKind {
			return fmt.Sprintf("%s terminated with %v, %s with %v", first.Level, first.Err, o.Level, o.Err)
		}
		if kind == "" && string(o.Output) != string(first.Output) {
			return fmt.Sprintf("%s produced %v, %s produced %v", first.Level, first.Output, o.Level, o.Output)
		}
	}
	return ""
}

func errorKind(err error) (kind errors.Kind, isBudget bool) {
	if err == nil {
		return "", false
	}
	if bfErr, ok := err.(*errors.Error); ok {
		return bfErr.Kind, bfErr.Kind == errors.MaxIterationsExceeded
	}
	return errors.Kind(err.Error()), false
}

// FuzzN runs n independent differential cases, each with a freshly
// generated random program and a freshly generated seed, bounded to at
// most concurrency simultaneous cases via errgroup's limiter. It returns
// every run that disagreed.
func FuzzN(ctx context.Context, n, concurrency int, cfg Config, sourceRng *rand.Rand, seedRng *rand.Rand) ([]*Run, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	mismatches := make([]*Run, 0)
	results := make(chan *Run)
	done := make(chan struct{})

	go func() {
		for r := range results {
			if !r.Agrees() {
				mismatches = append(mismatches, r)
			}
		}
		close(done)
	}()

	for i := 0; i < n; i++ {
		src := RandomProgram(sourceRng, cfg)
		var seed [32]byte
		for j := range seed {
			seed[j] = byte(seedRng.Uint64())
		}
		g.Go(func() error {
			run, err := One(gctx, src, seed, cfg)
			if err != nil {
				return err
			}
			results <- run
			return nil
		})
	}

	err := g.Wait()
	close(results)
	<-done
	return mismatches, err
}
