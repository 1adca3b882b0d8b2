package profile

import "errors"

var (
	ErrInvalidStackIndex    = errors.New("profile contains an invalid stack index")
	ErrInvalidFrameIndex    = errors.New("profile contains an invalid frame index")
	ErrInvalidFuncIndex     = errors.New("profile contains an invalid func index")
	ErrInvalidResourceIndex = errors.New("profile contains an invalid resource index")
	ErrInvalidNameIndex     = errors.New("profile contains an invalid string index")
	ErrPrefixOutOfOrder     = errors.New("stack table prefix does not precede its stack")
)

// Validate bounds-checks the thread's cross-table indices and the
// parent-before-child ordering of the stack table. It runs at ingestion;
// the transforms themselves assume a validated thread.
func (t *Thread) Validate() error {
	for s := 0; s < t.Stacks.Length; s++ {
		prefix := t.Stacks.Prefix[s]
		if prefix != None && (prefix < 0 || prefix >= s) {
			return ErrPrefixOutOfOrder
		}
		if frame := t.Stacks.Frame[s]; frame < 0 || frame >= t.Frames.Length {
			return ErrInvalidFrameIndex
		}
	}
	for f := 0; f < t.Frames.Length; f++ {
		if fn := t.Frames.Func[f]; fn < 0 || fn >= t.Funcs.Length {
			return ErrInvalidFuncIndex
		}
	}
	for fn := 0; fn < t.Funcs.Length; fn++ {
		if name := t.Funcs.Name[fn]; name < 0 || name >= t.Strings.Len() {
			return ErrInvalidNameIndex
		}
		if r := t.Funcs.Resource[fn]; r != None && (r < 0 || r >= t.Resources.Length) {
			return ErrInvalidResourceIndex
		}
	}
	for i := 0; i < t.Samples.Length; i++ {
		if s := t.Samples.Stack[i]; s != None && (s < 0 || s >= t.Stacks.Length) {
			return ErrInvalidStackIndex
		}
	}
	for i := 0; i < t.Markers.Length; i++ {
		if name := t.Markers.Name[i]; name < 0 || name >= t.Strings.Len() {
			return ErrInvalidNameIndex
		}
	}
	return nil
}

// Validate checks every thread of the profile.
func (p *Profile) Validate() error {
	for i := range p.Threads {
		if err := p.Threads[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
