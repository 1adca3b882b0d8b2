package profile

import (
	"bytes"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// None marks an absent index in a nullable column. The wire format uses JSON
// null; the in-memory representation uses -1 so columns stay plain int slices.
const None = -1

type (
	// OptInts is an index column whose absent entries appear as null on the
	// wire and as None in memory.
	OptInts []int

	// OptFloats is a float column whose absent entries appear as null on the
	// wire and as NaN in memory.
	OptFloats []float64
)

var nullBytes = []byte("null")

func (c OptInts) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, v := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		if v == None {
			b.Write(nullBytes)
		} else {
			b.WriteString(strconv.Itoa(v))
		}
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

func (c *OptInts) UnmarshalJSON(b []byte) error {
	var values []*int
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	out := make([]int, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = None
		} else {
			out[i] = *v
		}
	}
	*c = out
	return nil
}

func (c OptFloats) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, v := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsNaN(v) {
			b.Write(nullBytes)
		} else {
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

func (c *OptFloats) UnmarshalJSON(b []byte) error {
	var values []*float64
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	*c = out
	return nil
}
