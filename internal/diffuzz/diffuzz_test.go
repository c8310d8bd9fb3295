package diffuzz

import (
	"context"
	"math/rand/v2"
	"testing"
)

func TestRandomProgramAlwaysBalanced(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	cfg := DefaultConfig()
	for i := 0; i < 200; i++ {
		src := RandomProgram(rng, cfg)
		if !balanced([]byte(src)) {
			t.Fatalf("RandomProgram produced unbalanced source %q", src)
		}
	}
}

func TestOneAgreesOnCleanProgram(t *testing.T) {
	run, err := One(context.Background(), "++++++++[>++++++++<-]>+.", [32]byte{1}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !run.Agrees() {
		t.Fatalf("expected agreement, got %s", run.OutputDisagreement)
	}
	if len(run.Outcomes) != 4 {
		t.Fatalf("got %d outcomes, want 4", len(run.Outcomes))
	}
}

func TestOneAgreesOnParseError(t *testing.T) {
	run, err := One(context.Background(), "[+", [32]byte{1}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !run.Agrees() {
		t.Fatalf("expected agreement on parse error, got %s", run.OutputDisagreement)
	}
	for _, o := range run.Outcomes {
		if o.Err == nil {
			t.Fatalf("level %s: expected a parse error", o.Level)
		}
	}
}

func TestOneAgreesOnDivergentProgram(t *testing.T) {
	// "+[]" never halts under any optimization level; all four should
	// agree by hitting MaxIterationsExceeded, which disagreement()
	// treats as non-conclusive rather than a mismatch.
	cfg := Config{MaxIterations: 500, MaxSourceLen: DefaultConfig().MaxSourceLen}
	run, err := One(context.Background(), "+[]", [32]byte{1}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !run.Agrees() {
		t.Fatalf("expected agreement on shared divergence, got %s", run.OutputDisagreement)
	}
}

func TestFuzzNFindsNoMismatchesOnSmallSample(t *testing.T) {
	sourceRng := rand.New(rand.NewPCG(7, 7))
	seedRng := rand.New(rand.NewPCG(9, 9))
	cfg := Config{MaxIterations: 2000, MaxSourceLen: 40}
	mismatches, err := FuzzN(context.Background(), 20, 4, cfg, sourceRng, seedRng)
	if err != nil {
		t.Fatal(err)
	}
	if len(mismatches) != 0 {
		for _, m := range mismatches {
			t.Errorf("mismatch on %q: %s", m.Source, m.OutputDisagreement)
		}
	}
}
