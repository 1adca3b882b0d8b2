package calltree

import (
	"github.com/serima/perfcore/internal/profile"
)

type (
	// CallNodeTable is the deduplicated call tree: one row per distinct
	// (parent call node, function) pair reachable from any sample's stack.
	// Prefix[c] < c for every non-root row, inherited from the stack
	// table's ordering and preserved by the append-only construction.
	CallNodeTable struct {
		Prefix []int `json:"prefix"`
		Func   []int `json:"func"`
		Depth  []int `json:"depth"`
		Length int   `json:"length"`
	}

	// Info pairs a call-node table with the per-stack lookup into it.
	Info struct {
		CallNodeTable             CallNodeTable `json:"callNodeTable"`
		StackIndexToCallNodeIndex []int         `json:"stackIndexToCallNodeIndex"`
	}

	nodeKey struct {
		prefix int
		fn     int
	}
)

// GetCallNodeInfo builds the call-node table for a thread's stack table.
// Two stacks resolve to the same call node iff their root-to-leaf function
// sequences are identical; frames of the same function that differ only in
// call-site metadata merge. A single forward pass suffices because every
// stack's prefix has a smaller index and is therefore already resolved.
func GetCallNodeInfo(stacks profile.StackTable, frames profile.FrameTable, funcs profile.FuncTable) Info {
	table := CallNodeTable{
		Prefix: make([]int, 0, funcs.Length),
		Func:   make([]int, 0, funcs.Length),
		Depth:  make([]int, 0, funcs.Length),
	}
	stackIndexToCallNodeIndex := make([]int, stacks.Length)
	nodes := make(map[nodeKey]int, stacks.Length)

	for s := 0; s < stacks.Length; s++ {
		prefixCallNode := profile.None
		if prefix := stacks.Prefix[s]; prefix != profile.None {
			prefixCallNode = stackIndexToCallNodeIndex[prefix]
		}
		fn := frames.Func[stacks.Frame[s]]

		key := nodeKey{prefix: prefixCallNode, fn: fn}
		node, ok := nodes[key]
		if !ok {
			depth := 0
			if prefixCallNode != profile.None {
				depth = table.Depth[prefixCallNode] + 1
			}
			node = table.Length
			table.Prefix = append(table.Prefix, prefixCallNode)
			table.Func = append(table.Func, fn)
			table.Depth = append(table.Depth, depth)
			table.Length++
			nodes[key] = node
		}
		stackIndexToCallNodeIndex[s] = node
	}

	return Info{
		CallNodeTable:             table,
		StackIndexToCallNodeIndex: stackIndexToCallNodeIndex,
	}
}
