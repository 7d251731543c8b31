package model1

import (
	"strconv"
	"strings"
	"time"

	"github.com/fvbommel/sortorder"
)

// IsValid returns true if the row does not flag itself invalid through a
// VALID column.
func IsValid(h Header, r Row) bool {
	if len(r.Fields) == 0 {
		return true
	}
	idx, ok := h.IndexOf("VALID")
	if !ok || idx >= len(r.Fields) {
		return true
	}
	val := strings.TrimSpace(r.Fields[idx])
	return val == "" || strings.ToLower(val) == "true"
}

// Less returns true if v1 sorts before v2. Ties fall back on the row IDs.
func Less(isNumber, isDuration bool, id1, id2, v1, v2 string) bool {
	if v1 == v2 {
		return sortorder.NaturalLess(id1, id2)
	}
	switch {
	case isNumber:
		return lessNumber(v1, v2)
	case isDuration:
		return lessDuration(v1, v2)
	default:
		return sortorder.NaturalLess(v1, v2)
	}
}

// RowLess returns a row ordering on column col of h.
func RowLess(h Header, col int, asc bool) func(a, b Row) bool {
	num, dur := h.IsNumberCol(col), h.IsTimeCol(col)
	return func(a, b Row) bool {
		if !asc {
			a, b = b, a
		}
		return Less(num, dur, a.ID, b.ID, a.Field(col), b.Field(col))
	}
}

func lessNumber(s1, s2 string) bool {
	v1, v2 := strings.ReplaceAll(s1, ",", ""), strings.ReplaceAll(s2, ",", "")
	n1, err1 := strconv.ParseFloat(v1, 64)
	n2, err2 := strconv.ParseFloat(v2, 64)
	if err1 != nil || err2 != nil {
		return sortorder.NaturalLess(v1, v2)
	}
	return n1 < n2
}

func lessDuration(s1, s2 string) bool {
	d1, err1 := time.ParseDuration(s1)
	d2, err2 := time.ParseDuration(s2)
	if err1 != nil || err2 != nil {
		return sortorder.NaturalLess(s1, s2)
	}
	return d1 < d2
}

// ToAge renders the time elapsed since t, truncated to a readable unit.
func ToAge(t time.Time) string {
	if t.IsZero() {
		return NAValue
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return d.Truncate(time.Second).String()
	case d < time.Hour:
		return d.Truncate(time.Minute).String()
	default:
		return d.Truncate(time.Hour).String()
	}
}
