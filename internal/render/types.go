package render

const (
	// MissingValue is shown for empty fields.
	MissingValue = "<none>"

	// Ellipsis marks truncated text.
	Ellipsis = "…"

	// DefaultWidth is the maximum cell text width.
	DefaultWidth = 32
)
