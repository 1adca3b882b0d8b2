package transform

import (
	"github.com/serima/perfcore/internal/profile"
)

// Stack rewriters derive a new thread from an old one: a fresh stack table
// plus a samples table whose stack column is remapped into it. Inputs are
// never mutated; unchanged sub-tables are shared by reference.

type stackKey struct {
	prefix int
	frame  int
}

// stackBuilder grows a stack table one deduplicated (prefix, frame) row at a
// time. Append-only growth keeps the parent-before-child ordering intact
// without any sorting.
type stackBuilder struct {
	table profile.StackTable
	nodes map[stackKey]int
}

func newStackBuilder(capacity int) *stackBuilder {
	return &stackBuilder{
		table: profile.StackTable{
			Frame:  make([]int, 0, capacity),
			Prefix: make(profile.OptInts, 0, capacity),
		},
		nodes: make(map[stackKey]int, capacity),
	}
}

// stackFor returns the stack index for (prefix, frame), appending a new row
// the first time the pair is seen.
func (b *stackBuilder) stackFor(prefix, frame int) int {
	key := stackKey{prefix: prefix, frame: frame}
	if s, ok := b.nodes[key]; ok {
		return s
	}
	s := b.table.Length
	b.table.Frame = append(b.table.Frame, frame)
	b.table.Prefix = append(b.table.Prefix, prefix)
	b.table.Length++
	b.nodes[key] = s
	return s
}

// remapSampleStacks rewrites the samples' stack column through a per-old-stack
// conversion, leaving every other column shared with the input.
func remapSampleStacks(samples profile.SamplesTable, oldToNew []int) profile.SamplesTable {
	stack := make(profile.OptInts, samples.Length)
	for i, s := range samples.Stack {
		if s == profile.None {
			stack[i] = profile.None
		} else {
			stack[i] = oldToNew[s]
		}
	}
	out := samples
	out.Stack = stack
	return out
}
