package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/serima/perfcore/internal/profile"
	"github.com/serima/perfcore/internal/transform"
)

// applyFilters rewrites a thread according to the query parameters of a
// call tree request. Filters compose in a fixed order: time range first,
// then implementation, platform collapsing, search and finally inversion.
func applyFilters(thread *profile.Thread, params url.Values) (*profile.Thread, error) {
	thread, err := applyRangeFilter(thread, params)
	if err != nil {
		return nil, err
	}

	if implementation := params.Get("implementation"); implementation != "" {
		if implementation != "js" && implementation != "cpp" {
			return nil, fmt.Errorf("unknown implementation: %q", implementation)
		}
		thread = transform.FilterToImplementation(thread, implementation)
	}

	if collapse := params.Get("collapse_platform"); collapse != "" {
		v, err := strconv.ParseBool(collapse)
		if err != nil {
			return nil, fmt.Errorf("invalid collapse_platform: %w", err)
		}
		if v {
			thread = transform.CollapsePlatformFrames(thread)
		}
	}

	if searches, ok := params["search"]; ok && len(searches) > 0 {
		thread = transform.FilterToSearchStrings(thread, searches)
	}

	if invert := params.Get("invert"); invert != "" {
		v, err := strconv.ParseBool(invert)
		if err != nil {
			return nil, fmt.Errorf("invalid invert: %w", err)
		}
		if v {
			thread = transform.Invert(thread)
		}
	}

	return thread, nil
}

func applyRangeFilter(thread *profile.Thread, params url.Values) (*profile.Thread, error) {
	rangeStart, rangeEnd := params.Get("range_start"), params.Get("range_end")
	if rangeStart == "" && rangeEnd == "" {
		return thread, nil
	}
	if rangeStart == "" || rangeEnd == "" {
		return nil, fmt.Errorf("range_start and range_end must be set together")
	}
	start, err := strconv.ParseFloat(rangeStart, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range_start: %w", err)
	}
	end, err := strconv.ParseFloat(rangeEnd, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range_end: %w", err)
	}
	if end < start {
		return nil, fmt.Errorf("range_end must not be less than range_start")
	}
	return transform.FilterToRange(thread, start, end), nil
}
