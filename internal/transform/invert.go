package transform

import (
	"github.com/serima/perfcore/internal/profile"
)

// Invert rebuilds every sampled stack with the leaf frame at the root and
// the original root as the deepest frame, producing a tree rooted at the
// most common leaf functions. The fresh stack table contains only paths
// reachable from samples.
func Invert(thread *profile.Thread) *profile.Thread {
	old := thread.Stacks
	b := newStackBuilder(old.Length)
	converted := make(map[int]int, old.Length)

	var path []int
	convert := func(leaf int) int {
		if s, ok := converted[leaf]; ok {
			return s
		}
		// Walking leaf to root already yields the inverted insertion order.
		path = path[:0]
		for s := leaf; s != profile.None; s = old.Prefix[s] {
			path = append(path, old.Frame[s])
		}
		newStack := profile.None
		for _, frame := range path {
			newStack = b.stackFor(newStack, frame)
		}
		converted[leaf] = newStack
		return newStack
	}

	stack := make(profile.OptInts, thread.Samples.Length)
	for i, s := range thread.Samples.Stack {
		if s == profile.None {
			stack[i] = profile.None
		} else {
			stack[i] = convert(s)
		}
	}

	out := *thread
	out.Stacks = b.table
	samples := thread.Samples
	samples.Stack = stack
	out.Samples = samples
	return &out
}
