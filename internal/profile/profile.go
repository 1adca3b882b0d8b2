package profile

import (
	"github.com/goccy/go-json"

	"github.com/serima/perfcore/internal/strtab"
)

// The tables below hold a processed profile in struct-of-arrays layout:
// parallel columns plus a Length, indexed by dense integer ids. Tables are
// immutable once built; transforms derive new instances instead of mutating.

type (
	// FuncTable has one row per distinct function.
	FuncTable struct {
		Name       []int   `json:"name"`
		Resource   OptInts `json:"resource"`
		Address    OptInts `json:"address"`
		IsJS       []bool  `json:"isJS"`
		FileName   OptInts `json:"fileName"`
		LineNumber OptInts `json:"lineNumber"`
		Length     int     `json:"length"`
	}

	// FrameTable has one row per (function, call site) occurrence. Many
	// frames may reference the same function.
	FrameTable struct {
		Address        OptInts           `json:"address"`
		Category       OptInts           `json:"category"`
		Func           []int             `json:"func"`
		Implementation OptInts           `json:"implementation"`
		Line           OptInts           `json:"line"`
		Optimizations  []json.RawMessage `json:"optimizations"`
		Length         int               `json:"length"`
	}

	// StackTable is the call-stack trie: one row per observed
	// (prefix stack, frame) pair. Prefix[s] < s for every non-root row,
	// parents always precede their children.
	StackTable struct {
		Frame  []int   `json:"frame"`
		Prefix OptInts `json:"prefix"`
		Length int     `json:"length"`
	}

	// SamplesTable has one row per time sample, Time ascending.
	SamplesTable struct {
		Responsiveness OptFloats `json:"responsiveness"`
		RSS            OptFloats `json:"rss"`
		Stack          OptInts   `json:"stack"`
		Time           []float64 `json:"time"`
		USS            OptFloats `json:"uss"`
		Length         int       `json:"length"`
	}

	// MarkersTable has one row per raw marker event, Time ascending.
	MarkersTable struct {
		Data   []*MarkerPayload `json:"data"`
		Name   []int            `json:"name"`
		Time   []float64        `json:"time"`
		Length int              `json:"length"`
	}

	ResourceTable struct {
		Name   []int   `json:"name"`
		Lib    OptInts `json:"lib"`
		Host   OptInts `json:"host"`
		Type   []int   `json:"type"`
		Length int     `json:"length"`
	}

	// MarkerPayload is the tagged payload attached to a marker row. Tracing
	// events carry Type "tracing" plus an Interval of "start" or "end";
	// self-contained durations carry StartTime and EndTime instead. Fields
	// the engine does not interpret survive in Extra.
	MarkerPayload struct {
		Type      string          `json:"type,omitempty"`
		Interval  string          `json:"interval,omitempty"`
		StartTime *float64        `json:"startTime,omitempty"`
		EndTime   *float64        `json:"endTime,omitempty"`
		Extra     json.RawMessage `json:"extra,omitempty"`
	}

	Thread struct {
		Name               string  `json:"name"`
		ProcessType        string  `json:"processType"`
		Tid                int     `json:"tid"`
		Pid                int     `json:"pid"`
		ProcessStartupTime float64 `json:"processStartupTime"`

		Funcs     FuncTable     `json:"funcTable"`
		Frames    FrameTable    `json:"frameTable"`
		Stacks    StackTable    `json:"stackTable"`
		Samples   SamplesTable  `json:"samples"`
		Markers   MarkersTable  `json:"markers"`
		Resources ResourceTable `json:"resourceTable"`

		Strings *strtab.Table `json:"stringTable"`
	}

	Meta struct {
		Interval  float64 `json:"interval"`
		Product   string  `json:"product"`
		StartTime float64 `json:"startTime"`
		Version   int     `json:"version"`
	}

	Profile struct {
		Meta    Meta     `json:"meta"`
		Threads []Thread `json:"threads"`
	}
)

// FuncName resolves a function row's display name.
func (t *Thread) FuncName(funcIndex int) string {
	return t.Strings.GetString(t.Funcs.Name[funcIndex])
}
