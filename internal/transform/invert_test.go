package transform

import (
	"testing"

	"github.com/serima/perfcore/internal/profile"
	"github.com/serima/perfcore/internal/testutil"
)

func TestInvert(t *testing.T) {
	thread := fixtureThread()
	inverted := Invert(thread)

	// Each inverted sample path is the reverse of the original one.
	original := samplePaths(thread)
	want := make([][]int, len(original))
	for i, path := range original {
		reversed := make([]int, len(path))
		for j, fn := range path {
			reversed[len(path)-1-j] = fn
		}
		want[i] = reversed
	}
	if diff := testutil.Diff(want, samplePaths(inverted)); diff != "" {
		t.Fatalf("Inverted paths mismatch: got - want +\n%s", diff)
	}

	// The fresh table keeps parents before children.
	for s := 0; s < inverted.Stacks.Length; s++ {
		if prefix := inverted.Stacks.Prefix[s]; prefix != profile.None && prefix >= s {
			t.Fatalf("stack %d has prefix %d, parents must precede children", s, prefix)
		}
	}
}

func TestInvertRoundTrip(t *testing.T) {
	thread := fixtureThread()
	back := Invert(Invert(thread))

	if diff := testutil.Diff(samplePaths(thread), samplePaths(back)); diff != "" {
		t.Fatalf("Round-tripped paths mismatch: got - want +\n%s", diff)
	}
}

func TestInvertFilteredSamples(t *testing.T) {
	thread := fixtureThread()
	thread.Samples.Stack[2] = profile.None
	inverted := Invert(thread)

	if got := inverted.Samples.Stack[2]; got != profile.None {
		t.Fatalf("filtered-out sample should stay filtered: got %d", got)
	}
}
