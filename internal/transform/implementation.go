package transform

import (
	"strings"

	"github.com/serima/perfcore/internal/profile"
)

// FilterToImplementation rewrites the thread to contain only frames of the
// requested implementation: "js" keeps JS frames, "cpp" keeps native frames.
// Any other value is a passthrough. Elided frames are not torn out of the
// tree: their descendants attach to the nearest surviving ancestor.
func FilterToImplementation(thread *profile.Thread, implementation string) *profile.Thread {
	switch implementation {
	case "js":
		return filterToFuncPredicate(thread, func(fn int) bool {
			return thread.Funcs.IsJS[fn]
		})
	case "cpp":
		return filterToFuncPredicate(thread, func(fn int) bool {
			return !thread.Funcs.IsJS[fn] && !isJitFunc(thread, fn)
		})
	default:
		return thread
	}
}

// isJitFunc detects jitcode frames, which are native but belong to no loaded
// library: no owning resource and a raw hex address for a name.
func isJitFunc(thread *profile.Thread, fn int) bool {
	return thread.Funcs.Resource[fn] == profile.None &&
		strings.HasPrefix(thread.FuncName(fn), "0x")
}

func filterToFuncPredicate(thread *profile.Thread, keep func(fn int) bool) *profile.Thread {
	old := thread.Stacks
	b := newStackBuilder(old.Length)
	oldToNew := make([]int, old.Length)

	for s := 0; s < old.Length; s++ {
		newPrefix := profile.None
		if prefix := old.Prefix[s]; prefix != profile.None {
			newPrefix = oldToNew[prefix]
		}
		frame := old.Frame[s]
		if !keep(thread.Frames.Func[frame]) {
			oldToNew[s] = newPrefix
			continue
		}
		oldToNew[s] = b.stackFor(newPrefix, frame)
	}

	out := *thread
	out.Stacks = b.table
	out.Samples = remapSampleStacks(thread.Samples, oldToNew)
	return &out
}
