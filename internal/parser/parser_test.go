package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"bfopt/internal/errors"
	"bfopt/ir"
)

func TestParseBasicChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ir.Instr
	}{
		{"plus", "+", []ir.Instr{ir.Add{X: 1}}},
		{"minus", "-", []ir.Instr{ir.Add{X: -1}}},
		{"merge not applied in O0", "++", []ir.Instr{ir.Add{X: 1}, ir.Add{X: 1}}},
		{"move right", ">", []ir.Instr{ir.Move{Over: 1}}},
		{"move left", "<", []ir.Instr{ir.Move{Over: -1}}},
		{"print", ".", []ir.Instr{ir.Print{Times: 1}}},
		{"read", ",", []ir.Instr{ir.Read{}}},
		{"comments ignored", "+ \n\tx#-+", []ir.Instr{ir.Add{X: 1}, ir.Add{X: -1}, ir.Add{X: 1}}},
		{"empty loop", "[]", []ir.Instr{ir.Loop{Over: 0, Body: []ir.Instr{}}}},
		{"nested loop", "[[+]]", []ir.Instr{ir.Loop{Over: 0, Body: []ir.Instr{
			ir.Loop{Over: 0, Body: []ir.Instr{ir.Add{X: 1}}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if !cmp.Equal(got, tt.want) {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, cmp.Diff(tt.want, got))
			}
		})
	}
}

func TestParseUnbalancedBrackets(t *testing.T) {
	tests := []string{"[", "]", "[[]", "[]]", "+]", "[+"}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", src)
			}
			var e *errors.Error
			if !asError(err, &e) {
				t.Fatalf("Parse(%q) error is not *errors.Error: %v", src, err)
			}
			if e.Kind != errors.UnbalancedBrackets {
				t.Fatalf("Parse(%q) error kind = %s, want %s", src, e.Kind, errors.UnbalancedBrackets)
			}
		})
	}
}

func TestParseZeroOpAbsence(t *testing.T) {
	// Nothing in O0's direct character translation can ever produce a
	// zero Add or Move (+ and - always carry ±1, > and < always carry
	// ±1), so this exercises the post-filter's recursion into loops
	// rather than the filter condition itself.
	got, err := Parse("[+-]")
	if err != nil {
		t.Fatal(err)
	}
	want := []ir.Instr{ir.Loop{Over: 0, Body: []ir.Instr{ir.Add{X: 1}, ir.Add{X: -1}}}}
	if !cmp.Equal(got, want) {
		t.Errorf("mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}
