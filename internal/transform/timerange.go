package transform

import (
	"sort"

	"github.com/serima/perfcore/internal/profile"
)

// FilterToRange restricts the thread's samples and markers to rows with
// time in the half-open range [rangeStart, rangeEnd). An empty overlap
// yields zero-length tables.
func FilterToRange(thread *profile.Thread, rangeStart, rangeEnd float64) *profile.Thread {
	out := *thread
	out.Samples = filterSamplesToRange(thread.Samples, rangeStart, rangeEnd)
	out.Markers = filterMarkersToRange(thread.Markers, rangeStart, rangeEnd)
	return &out
}

// timeRangeIndices binary-searches an ascending time column for the index
// range covering [rangeStart, rangeEnd).
func timeRangeIndices(times []float64, rangeStart, rangeEnd float64) (int, int) {
	first := sort.Search(len(times), func(i int) bool { return times[i] >= rangeStart })
	last := sort.Search(len(times), func(i int) bool { return times[i] >= rangeEnd })
	return first, last
}

func filterSamplesToRange(samples profile.SamplesTable, rangeStart, rangeEnd float64) profile.SamplesTable {
	first, last := timeRangeIndices(samples.Time, rangeStart, rangeEnd)
	return profile.SamplesTable{
		Responsiveness: samples.Responsiveness[first:last],
		RSS:            samples.RSS[first:last],
		Stack:          samples.Stack[first:last],
		Time:           samples.Time[first:last],
		USS:            samples.USS[first:last],
		Length:         last - first,
	}
}

func filterMarkersToRange(markers profile.MarkersTable, rangeStart, rangeEnd float64) profile.MarkersTable {
	first, last := timeRangeIndices(markers.Time, rangeStart, rangeEnd)
	return profile.MarkersTable{
		Data:   markers.Data[first:last],
		Name:   markers.Name[first:last],
		Time:   markers.Time[first:last],
		Length: last - first,
	}
}
