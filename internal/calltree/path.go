package calltree

import (
	"encoding/binary"

	"github.com/serima/perfcore/internal/profile"
)

// Path is a root-to-leaf sequence of function indices. Unlike a call-node
// index, a path stays meaningful across table rebuilds, so it is the identity
// used to carry a selection over a filter change.
type Path []int

// PathCache memoizes path resolution against a single CallNodeTable
// generation. Reusing a cache across a rebuilt table yields wrong results;
// callers must allocate a fresh cache whenever they rebuild the table.
type PathCache struct {
	nodes map[string]int
}

func NewPathCache() *PathCache {
	return &PathCache{nodes: make(map[string]int)}
}

func (c *PathCache) get(p Path) (int, bool) {
	node, ok := c.nodes[pathKey(p)]
	return node, ok
}

func (c *PathCache) put(p Path, node int) {
	c.nodes[pathKey(p)] = node
}

func pathKey(p Path) string {
	b := make([]byte, 0, len(p)*binary.MaxVarintLen64)
	for _, fn := range p {
		b = binary.AppendUvarint(b, uint64(fn))
	}
	return string(b)
}

// PathToIndex resolves a path to its call-node index in table, or None if no
// such node exists (a valid outcome: filtering may have removed the path).
// Resolution walks back from the full path to the longest cached prefix, then
// re-resolves forward, caching every prefix it settles on the way.
func PathToIndex(p Path, table CallNodeTable, cache *PathCache) int {
	if len(p) == 0 {
		return profile.None
	}

	node := profile.None
	depth := len(p)
	for ; depth > 0; depth-- {
		if cached, ok := cache.get(p[:depth]); ok {
			node = cached
			break
		}
	}

	for ; depth < len(p); depth++ {
		fn := p[depth]
		next := profile.None
		// A matching child always has a larger index than its parent.
		for c := node + 1; c < table.Length; c++ {
			if table.Prefix[c] == node && table.Func[c] == fn {
				next = c
				break
			}
		}
		if next == profile.None {
			return profile.None
		}
		cache.put(p[:depth+1], next)
		node = next
	}
	return node
}

// IndexToPath collects the function indices from node up to its root and
// returns them in root-to-leaf order.
func IndexToPath(node int, table CallNodeTable) Path {
	var p Path
	for c := node; c != profile.None; c = table.Prefix[c] {
		p = append(p, table.Func[c])
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}
