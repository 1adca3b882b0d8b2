package transform

import (
	"strings"

	"github.com/serima/perfcore/internal/profile"
)

// FilterToSearchString keeps a sample iff its stack or any ancestor has a
// function matching the search string by name, file name, or owning resource
// name, case-insensitively. Non-matching samples keep their slot with a null
// stack; the stack table itself is returned untouched so call-node identity
// survives the filter.
func FilterToSearchString(thread *profile.Thread, search string) *profile.Thread {
	if search == "" {
		return thread
	}
	needle := strings.ToLower(search)

	funcMatches := make(map[int]bool, thread.Funcs.Length)
	funcMatch := func(fn int) bool {
		if m, ok := funcMatches[fn]; ok {
			return m
		}
		m := strings.Contains(strings.ToLower(thread.FuncName(fn)), needle)
		if !m {
			if file := thread.Funcs.FileName[fn]; file != profile.None {
				m = strings.Contains(strings.ToLower(thread.Strings.GetString(file)), needle)
			}
		}
		if !m {
			if r := thread.Funcs.Resource[fn]; r != profile.None {
				name := thread.Strings.GetString(thread.Resources.Name[r])
				m = strings.Contains(strings.ToLower(name), needle)
			}
		}
		funcMatches[fn] = m
		return m
	}

	stacks := thread.Stacks
	// A stack matches iff its prefix matches or its own function does;
	// prefixes come first in the table so one forward pass settles it.
	stackMatches := make([]bool, stacks.Length)
	for s := 0; s < stacks.Length; s++ {
		matches := false
		if prefix := stacks.Prefix[s]; prefix != profile.None {
			matches = stackMatches[prefix]
		}
		if !matches {
			matches = funcMatch(thread.Frames.Func[stacks.Frame[s]])
		}
		stackMatches[s] = matches
	}

	stack := make(profile.OptInts, thread.Samples.Length)
	for i, s := range thread.Samples.Stack {
		if s != profile.None && stackMatches[s] {
			stack[i] = s
		} else {
			stack[i] = profile.None
		}
	}

	out := *thread
	samples := thread.Samples
	samples.Stack = stack
	out.Samples = samples
	return &out
}

// FilterToSearchStrings applies each search string in turn: a sample
// survives only if it matches every one of them.
func FilterToSearchStrings(thread *profile.Thread, searches []string) *profile.Thread {
	for _, search := range searches {
		thread = FilterToSearchString(thread, search)
	}
	return thread
}
