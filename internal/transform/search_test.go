package transform

import (
	"testing"

	"github.com/serima/perfcore/internal/profile"
	"github.com/serima/perfcore/internal/testutil"
)

func TestFilterToSearchString(t *testing.T) {
	tests := []struct {
		name        string
		search      string
		wantSamples profile.OptInts
	}{
		{
			name:        "matches by file name",
			search:      "app.js",
			wantSamples: profile.OptInts{profile.None, profile.None, 2, 3, 4},
		},
		{
			name:        "matches by resource name",
			search:      "libxul",
			wantSamples: profile.OptInts{0, 1, 2, 3, 4},
		},
		{
			name:        "matches by function name",
			search:      "0x7f",
			wantSamples: profile.OptInts{profile.None, 1, 2, 3, 4},
		},
		{
			name:        "case insensitive",
			search:      "HANDLECLICK",
			wantSamples: profile.OptInts{profile.None, profile.None, profile.None, profile.None, 4},
		},
		{
			name:        "no match filters everything",
			search:      "nosuchthing",
			wantSamples: profile.OptInts{profile.None, profile.None, profile.None, profile.None, profile.None},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			thread := fixtureThread()
			filtered := FilterToSearchString(thread, test.search)

			if diff := testutil.Diff(test.wantSamples, filtered.Samples.Stack); diff != "" {
				t.Fatalf("Sample stacks mismatch: got - want +\n%s", diff)
			}
			// The stack table itself stays untouched.
			if diff := testutil.Diff(thread.Stacks, filtered.Stacks); diff != "" {
				t.Fatalf("Stack table mismatch: got - want +\n%s", diff)
			}
		})
	}
}

func TestFilterToSearchStringEmpty(t *testing.T) {
	thread := fixtureThread()
	if got := FilterToSearchString(thread, ""); got != thread {
		t.Fatal("empty search should return the thread unchanged")
	}
}

// Applying a list of search strings keeps exactly the samples kept by every
// individual search.
func TestFilterToSearchStringsIntersection(t *testing.T) {
	thread := fixtureThread()
	searches := []string{"app.js", "0x7f"}

	combined := FilterToSearchStrings(thread, searches)

	want := make(profile.OptInts, thread.Samples.Length)
	copy(want, thread.Samples.Stack)
	for _, search := range searches {
		single := FilterToSearchString(thread, search)
		for i, s := range single.Samples.Stack {
			if s == profile.None {
				want[i] = profile.None
			}
		}
	}

	if diff := testutil.Diff(want, combined.Samples.Stack); diff != "" {
		t.Fatalf("Sample stacks mismatch: got - want +\n%s", diff)
	}
}
