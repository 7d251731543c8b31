package model1

// Fields represents the cell values of a row, one per header column.
type Fields []string

// Diff returns true if the fields differ, ignoring the age column.
func (f Fields) Diff(o Fields, ageCol int) bool {
	if len(f) != len(o) {
		return true
	}
	for i := range f {
		if i == ageCol {
			continue
		}
		if f[i] != o[i] {
			return true
		}
	}
	return false
}

// Customize copies the selected columns into out.
func (f Fields) Customize(cols []int, out Fields) {
	for i, c := range cols {
		if c < 0 || c >= len(f) || i >= len(out) {
			continue
		}
		out[i] = f[c]
	}
}

// Clone returns a copy of the fields.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	copy(out, f)
	return out
}

// Row represents a collection of columns
type Row struct {
	ID     string
	Fields Fields
}

func NewRow(size int) Row {
	return Row{Fields: make(Fields, size)}
}

func (r Row) Customize(cols []int) Row {
	out := NewRow(len(cols))
	r.Fields.Customize(cols, out.Fields)
	out.ID = r.ID
	return out
}

func (r Row) Diff(ro Row, ageCol int) bool {
	if r.ID != ro.ID {
		return true
	}
	return r.Fields.Diff(ro.Fields, ageCol)
}

// Equal reports whether both rows carry the same ID and field values.
func (r Row) Equal(ro Row) bool {
	return !r.Diff(ro, -1)
}

// Identity returns the row ID. Rows sharing an ID are the same element
// even when their fields change.
func (r Row) Identity() string {
	return r.ID
}

// Field returns the value at column col or NAValue when missing.
func (r Row) Field(col int) string {
	if col < 0 || col >= len(r.Fields) {
		return NAValue
	}
	return r.Fields[col]
}

func (r Row) Clone() Row {
	return Row{
		ID:     r.ID,
		Fields: r.Fields.Clone(),
	}
}

func (r Row) Len() int {
	return len(r.Fields)
}

// Rows represents a collection of rows
type Rows []Row

func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	for i, row := range r {
		out[i] = row.Clone()
	}
	return out
}

// Index maps row IDs to their position.
func (r Rows) Index() map[string]int {
	idx := make(map[string]int, len(r))
	for i, row := range r {
		idx[row.ID] = i
	}
	return idx
}
