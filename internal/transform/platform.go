package transform

import (
	"github.com/goccy/go-json"

	"github.com/serima/perfcore/internal/profile"
)

// CollapsePlatformFrames merges every run of consecutive platform (non-JS)
// frames into a single synthetic node named "Platform". A platform frame
// whose parent is JS or absent starts a run and becomes the synthetic node;
// deeper platform frames in the run collapse into it. JS frames pass through
// verbatim. Synthetic function and frame rows append to copies of the
// original tables, never to the shared originals.
func CollapsePlatformFrames(thread *profile.Thread) *profile.Thread {
	old := thread.Stacks
	funcs := copyFuncTable(thread.Funcs)
	frames := copyFrameTable(thread.Frames)
	platformName := thread.Strings.IndexForString("Platform")

	b := newStackBuilder(old.Length)
	oldToNew := make([]int, old.Length)

	isJSFrame := func(s int) bool {
		return thread.Funcs.IsJS[thread.Frames.Func[old.Frame[s]]]
	}

	for s := 0; s < old.Length; s++ {
		prefix := old.Prefix[s]
		newPrefix := profile.None
		if prefix != profile.None {
			newPrefix = oldToNew[prefix]
		}

		if isJSFrame(s) {
			oldToNew[s] = b.stackFor(newPrefix, old.Frame[s])
			continue
		}
		if prefix != profile.None && !isJSFrame(prefix) {
			// Inside a run: the parent's new stack is the run's synthetic node.
			oldToNew[s] = newPrefix
			continue
		}
		// Every run start gets its own synthetic row, so sibling runs under
		// the same parent stay distinct.
		newFunc := appendPlatformFunc(&funcs, platformName)
		newFrame := appendPlatformFrame(&frames, newFunc)
		oldToNew[s] = b.stackFor(newPrefix, newFrame)
	}

	out := *thread
	out.Funcs = funcs
	out.Frames = frames
	out.Stacks = b.table
	out.Samples = remapSampleStacks(thread.Samples, oldToNew)
	return &out
}

func copyFuncTable(t profile.FuncTable) profile.FuncTable {
	return profile.FuncTable{
		Name:       append([]int(nil), t.Name...),
		Resource:   append(profile.OptInts(nil), t.Resource...),
		Address:    append(profile.OptInts(nil), t.Address...),
		IsJS:       append([]bool(nil), t.IsJS...),
		FileName:   append(profile.OptInts(nil), t.FileName...),
		LineNumber: append(profile.OptInts(nil), t.LineNumber...),
		Length:     t.Length,
	}
}

func copyFrameTable(t profile.FrameTable) profile.FrameTable {
	return profile.FrameTable{
		Address:        append(profile.OptInts(nil), t.Address...),
		Category:       append(profile.OptInts(nil), t.Category...),
		Func:           append([]int(nil), t.Func...),
		Implementation: append(profile.OptInts(nil), t.Implementation...),
		Line:           append(profile.OptInts(nil), t.Line...),
		Optimizations:  append([]json.RawMessage(nil), t.Optimizations...),
		Length:         t.Length,
	}
}

func appendPlatformFunc(t *profile.FuncTable, name int) int {
	fn := t.Length
	t.Name = append(t.Name, name)
	t.Resource = append(t.Resource, profile.None)
	t.Address = append(t.Address, profile.None)
	t.IsJS = append(t.IsJS, false)
	t.FileName = append(t.FileName, profile.None)
	t.LineNumber = append(t.LineNumber, profile.None)
	t.Length++
	return fn
}

func appendPlatformFrame(t *profile.FrameTable, fn int) int {
	frame := t.Length
	t.Address = append(t.Address, profile.None)
	t.Category = append(t.Category, profile.None)
	t.Func = append(t.Func, fn)
	t.Implementation = append(t.Implementation, profile.None)
	t.Line = append(t.Line, profile.None)
	t.Optimizations = append(t.Optimizations, nil)
	t.Length++
	return frame
}
