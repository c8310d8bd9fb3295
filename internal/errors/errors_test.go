package errors

import "testing"

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want Kind
	}{
		{"unbalanced", NewUnbalancedBrackets(12), UnbalancedBrackets},
		{"bounds", NewOutOfBounds(5), OutOfBounds},
		{"inputs", NewOutOfInputs(), OutOfInputs},
		{"iterations", NewMaxIterationsExceeded(1000), MaxIterationsExceeded},
		{"invariant", NewOptimizerInvariant("bad shape"), OptimizerInvariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.want {
				t.Fatalf("Kind = %s, want %s", tt.err.Kind, tt.want)
			}
			if tt.err.Error() == "" {
				t.Fatal("Error() returned empty string")
			}
			if !tt.err.Is(tt.want) {
				t.Fatalf("Is(%s) = false, want true", tt.want)
			}
		})
	}
}
