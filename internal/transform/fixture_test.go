package transform

import (
	"math"

	"github.com/serima/perfcore/internal/profile"
	"github.com/serima/perfcore/internal/strtab"
)

// fixtureThread builds a thread mixing native, jitcode and JS frames:
//
//	s0  main            (native, libxul.so)
//	s1  └─ 0x7f2a91     (jitcode: native, no resource)
//	s2     └─ onLoad       (JS, app.js)
//	s3        ├─ paint     (native, libxul.so)
//	s4        └─ handleClick (JS)
//
// One sample points at each stack, at times 0..4.
func fixtureThread() *profile.Thread {
	strings := strtab.NewFromSlice([]string{
		"main", "0x7f2a91", "onLoad", "handleClick", "app.js", "libxul.so", "paint",
	})
	nan := math.NaN()
	return &profile.Thread{
		Name:        "GeckoMain",
		ProcessType: "default",
		Funcs: profile.FuncTable{
			Name:       []int{0, 1, 2, 3, 6},
			Resource:   profile.OptInts{0, profile.None, profile.None, profile.None, 0},
			Address:    profile.OptInts{profile.None, profile.None, profile.None, profile.None, profile.None},
			IsJS:       []bool{false, false, true, true, false},
			FileName:   profile.OptInts{profile.None, profile.None, 4, profile.None, profile.None},
			LineNumber: profile.OptInts{profile.None, profile.None, 7, 13, profile.None},
			Length:     5,
		},
		Frames: profile.FrameTable{
			Address:        profile.OptInts{profile.None, profile.None, profile.None, profile.None, profile.None},
			Category:       profile.OptInts{profile.None, profile.None, profile.None, profile.None, profile.None},
			Func:           []int{0, 1, 2, 3, 4},
			Implementation: profile.OptInts{profile.None, profile.None, profile.None, profile.None, profile.None},
			Line:           profile.OptInts{profile.None, profile.None, profile.None, profile.None, profile.None},
			Optimizations:  nil,
			Length:         5,
		},
		Stacks: profile.StackTable{
			Frame:  []int{0, 1, 2, 4, 3},
			Prefix: profile.OptInts{profile.None, 0, 1, 2, 2},
			Length: 5,
		},
		Samples: profile.SamplesTable{
			Responsiveness: profile.OptFloats{nan, nan, nan, nan, nan},
			RSS:            profile.OptFloats{nan, nan, nan, nan, nan},
			Stack:          profile.OptInts{0, 1, 2, 3, 4},
			Time:           []float64{0, 1, 2, 3, 4},
			USS:            profile.OptFloats{nan, nan, nan, nan, nan},
			Length:         5,
		},
		Markers: profile.MarkersTable{},
		Resources: profile.ResourceTable{
			Name:   []int{5},
			Lib:    profile.OptInts{profile.None},
			Host:   profile.OptInts{profile.None},
			Type:   []int{1},
			Length: 1,
		},
		Strings: strings,
	}
}

// samplePaths resolves each sample's stack into its root-to-leaf function
// sequence; filtered-out samples yield nil.
func samplePaths(thread *profile.Thread) [][]int {
	paths := make([][]int, thread.Samples.Length)
	for i, s := range thread.Samples.Stack {
		if s == profile.None {
			continue
		}
		var path []int
		for cur := s; cur != profile.None; cur = thread.Stacks.Prefix[cur] {
			path = append(path, thread.Frames.Func[thread.Stacks.Frame[cur]])
		}
		for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
			path[a], path[b] = path[b], path[a]
		}
		paths[i] = path
	}
	return paths
}
