package strtab

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Table interns strings into dense integer ids. Ids are append-only: once a
// string is interned its id never changes, so components holding ids across
// transforms stay valid as long as they share the same table.
type Table struct {
	indexes map[string]int
	strings []string
}

func New() *Table {
	return &Table{
		indexes: make(map[string]int),
	}
}

// NewFromSlice builds a table around an existing string column, preserving
// the id order of the input.
func NewFromSlice(strings []string) *Table {
	t := Table{
		indexes: make(map[string]int, len(strings)),
		strings: strings,
	}
	for i, s := range strings {
		t.indexes[s] = i
	}
	return &t
}

// IndexForString returns the id for s, interning it if absent.
func (t *Table) IndexForString(s string) int {
	if i, ok := t.indexes[s]; ok {
		return i
	}
	i := len(t.strings)
	t.indexes[s] = i
	t.strings = append(t.strings, s)
	return i
}

// GetString returns the string for an id previously returned by
// IndexForString. Passing an unknown id is a caller bug.
func (t *Table) GetString(i int) string {
	if i < 0 || i >= len(t.strings) {
		panic(fmt.Sprintf("strtab: no string with id %d", i))
	}
	return t.strings[i]
}

func (t *Table) Has(s string) bool {
	_, ok := t.indexes[s]
	return ok
}

func (t *Table) Len() int {
	return len(t.strings)
}

// Strings exposes the backing column. Callers must not mutate it.
func (t *Table) Strings() []string {
	return t.strings
}

// Tables serialize as a plain string array so threads keep their columnar
// wire shape.
func (t *Table) MarshalJSON() ([]byte, error) {
	if t.strings == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.strings)
}

func (t *Table) UnmarshalJSON(b []byte) error {
	var strings []string
	if err := json.Unmarshal(b, &strings); err != nil {
		return err
	}
	*t = *NewFromSlice(strings)
	return nil
}
