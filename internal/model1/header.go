package model1

import (
	"fmt"
	"slices"
)

const ageCol = "AGE"

// Attrs represents column attributes
type Attrs struct {
	Align     int  // tview alignment
	Time      bool // Age column
	Number    bool // Numeric sort
	Decorator DecoratorFunc
}

// HeaderColumn represents a table header column
type HeaderColumn struct {
	Name string
	Attrs
}

func (h HeaderColumn) String() string {
	return fmt.Sprintf("%s [%d::%t::%t]", h.Name, h.Align, h.Time, h.Number)
}

// Header represents a table header (slice of columns)
type Header []HeaderColumn

// NewHeader builds a plain header from column names.
func NewHeader(names ...string) Header {
	h := make(Header, 0, len(names))
	for _, n := range names {
		h = append(h, HeaderColumn{Name: n, Attrs: Attrs{Time: n == ageCol}})
	}
	return h
}

func (h Header) Clone() Header {
	return slices.Clone(h)
}

func (h Header) IndexOf(colName string) (int, bool) {
	for i, c := range h {
		if c.Name == colName {
			return i, true
		}
	}
	return -1, false
}

func (h Header) HasAge() bool {
	_, ok := h.IndexOf(ageCol)
	return ok
}

func (h Header) IsTimeCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Time
}

func (h Header) IsNumberCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Number
}

func (h Header) ColumnNames() []string {
	if len(h) == 0 {
		return nil
	}
	cc := make([]string, 0, len(h))
	for _, c := range h {
		cc = append(cc, c.Name)
	}
	return cc
}
