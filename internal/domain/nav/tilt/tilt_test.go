package tilt

import "testing"

func TestProcessingWeight(t *testing.T) {
	tests := []struct {
		rep  Representation
		want int
	}{
		{Keywords, 1},
		{Temporal, 2},
		{Concept, 2},
		{Graph, 3},
		{Embedding, 4},
	}
	for _, tc := range tests {
		if got := tc.rep.ProcessingWeight(); got != tc.want {
			t.Errorf("ProcessingWeight(%q) = %d, want %d", tc.rep, got, tc.want)
		}
	}
}

func TestOrdering(t *testing.T) {
	tests := []struct {
		rep  Representation
		want OrderingKey
	}{
		{Temporal, OrderRecencyDesc},
		{Keywords, OrderLabelAsc},
		{Graph, OrderStructural},
		{Embedding, OrderSimilarity},
		{Concept, OrderIDAsc},
	}
	for _, tc := range tests {
		if got := tc.rep.Ordering(); got != tc.want {
			t.Errorf("Ordering(%q) = %q, want %q", tc.rep, got, tc.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, rep := range Representations() {
		if !rep.IsValid() {
			t.Errorf("representation %q reported invalid", rep)
		}
	}
	if Representation("hologram").IsValid() {
		t.Error("unknown representation reported valid")
	}
}
