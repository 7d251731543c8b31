package model1

import "slices"

// DeltaRow holds the previous value of every field that changed between two
// versions of the same row. Unchanged fields are blank.
type DeltaRow []string

func NewDeltaRow(o, n Row, h Header) DeltaRow {
	deltas := make(DeltaRow, len(o.Fields))
	for i, old := range o.Fields {
		if i >= len(n.Fields) {
			continue
		}
		if old != "" && old != n.Fields[i] && !h.IsTimeCol(i) {
			deltas[i] = old
		}
	}
	return deltas
}

// Diff returns true if the deltas differ outside the age column.
func (d DeltaRow) Diff(r DeltaRow, ageCol int) bool {
	if len(d) != len(r) {
		return true
	}
	if ageCol < 0 || ageCol >= len(d) {
		return !slices.Equal(d, r)
	}
	return !slices.Equal(d[:ageCol], r[:ageCol]) || !slices.Equal(d[ageCol+1:], r[ageCol+1:])
}

// Changed returns the indices of the fields that carry a delta.
func (d DeltaRow) Changed() []int {
	var cols []int
	for i, v := range d {
		if v != "" {
			cols = append(cols, i)
		}
	}
	return cols
}

func (d DeltaRow) IsBlank() bool {
	return len(d.Changed()) == 0
}

func (d DeltaRow) Clone() DeltaRow {
	return slices.Clone(d)
}
