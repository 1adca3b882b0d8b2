package marker

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/serima/perfcore/internal/profile"
	"github.com/serima/perfcore/internal/strtab"
)

type (
	// TracingMarker is a duration-bearing event reconstructed from raw
	// marker rows. Dur is +Inf for a start with no observed end; Start is
	// -1 for an end whose start fell before the observed window.
	TracingMarker struct {
		Start float64                `json:"start"`
		Dur   Duration               `json:"dur"`
		Name  string                 `json:"name"`
		Title string                 `json:"title,omitempty"`
		Data  *profile.MarkerPayload `json:"data,omitempty"`
	}

	// Duration is a marker duration in milliseconds. +Inf serializes as
	// JSON null, everything else as a plain number.
	Duration float64
)

const (
	intervalStart = "start"
	intervalEnd   = "end"
	typeTracing   = "tracing"
)

// Marker names of the form "DOMEvent(<type>)" carry the event type in the
// name itself.
var domEventPattern = regexp.MustCompile(`^DOMEvent\((.+)\)$`)

// TracingMarkers pairs raw start/end marker rows into duration markers.
//
// Pairing is last-in-first-out per marker name: a start event opens a
// pending marker, the next end event of the same name closes the most
// recently opened one. Same-named markers are assumed nested, never
// interleaved; an interleaved emitter still produces a deterministic result,
// just possibly paired the wrong way around. Payloads carrying their own
// startTime/endTime are emitted directly, payload-less rows become
// zero-duration points. The result is sorted by start time.
func TracingMarkers(markers profile.MarkersTable, stringTable *strtab.Table) []TracingMarker {
	result := make([]TracingMarker, 0, markers.Length)
	// Pending starts per name, as indices into result.
	open := make(map[int][]int)

	for i := 0; i < markers.Length; i++ {
		name := markers.Name[i]
		markerName := stringTable.GetString(name)
		time := markers.Time[i]
		data := markers.Data[i]

		switch {
		case data == nil:
			result = append(result, TracingMarker{
				Start: time,
				Name:  markerName,
				Title: markerTitle(markerName),
			})
		case data.Type == typeTracing && data.Interval == intervalStart:
			open[name] = append(open[name], len(result))
			result = append(result, TracingMarker{
				Start: time,
				Name:  markerName,
				Title: markerTitle(markerName),
				Data:  data,
			})
		case data.Type == typeTracing && data.Interval == intervalEnd:
			pending := open[name]
			if len(pending) == 0 {
				// The start fell before the observed window.
				result = append(result, TracingMarker{
					Start: -1,
					Dur:   Duration(time - (-1)),
					Name:  markerName,
					Title: markerTitle(markerName),
					Data:  data,
				})
				continue
			}
			idx := pending[len(pending)-1]
			open[name] = pending[:len(pending)-1]
			result[idx].Dur = Duration(time - result[idx].Start)
		case data.StartTime != nil && data.EndTime != nil:
			result = append(result, TracingMarker{
				Start: *data.StartTime,
				Dur:   Duration(*data.EndTime - *data.StartTime),
				Name:  markerName,
				Title: markerTitle(markerName),
				Data:  data,
			})
		default:
			result = append(result, TracingMarker{
				Start: time,
				Name:  markerName,
				Title: markerTitle(markerName),
				Data:  data,
			})
		}
	}

	// Starts that never saw an end stay open forever.
	for _, pending := range open {
		for _, idx := range pending {
			result[idx].Dur = Duration(math.Inf(1))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start < result[j].Start
	})
	return result
}

// markerTitle derives a display title from structured marker names. A name
// using the DOMEvent prefix without the expected shape is reported and left
// untitled.
func markerTitle(name string) string {
	if !strings.HasPrefix(name, "DOMEvent(") {
		return ""
	}
	m := domEventPattern.FindStringSubmatch(name)
	if m == nil {
		log.Warn().Str("name", name).Msg("malformed DOMEvent marker name")
		return ""
	}
	return m[1]
}

func (d Duration) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(d), 1) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(d))
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*d = Duration(math.Inf(1))
	} else {
		*d = Duration(*v)
	}
	return nil
}
