package model

import (
	"strconv"

	"github.com/pmezard/go-difflib/difflib"
)

// keyFunc maps two orderings onto comparable token sequences. Two elements
// share a token when they are the same element.
type keyFunc[T any] func(old, new []T) ([]string, []string)

// changeSet is the outcome of diffing two orderings.
type changeSet struct {
	// deleted holds positions in the old ordering.
	deleted []int
	// inserted holds positions in the new ordering.
	inserted []int
	// changed holds positions in the new ordering of elements that kept
	// their identity but not their value.
	changed []int
}

func (c changeSet) structural() bool {
	return len(c.deleted) > 0 || len(c.inserted) > 0
}

func (c changeSet) empty() bool {
	return !c.structural() && len(c.changed) == 0
}

func diff[T any](old, new []T, keys keyFunc[T], equal func(a, b T) bool) changeSet {
	var cs changeSet
	if len(old) == 0 && len(new) == 0 {
		return cs
	}
	a, b := keys(old, new)
	m := difflib.NewMatcherWithJunk(a, b, false, nil)
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'd':
			cs.deleted = appendRange(cs.deleted, op.I1, op.I2)
		case 'i':
			cs.inserted = appendRange(cs.inserted, op.J1, op.J2)
		case 'r':
			cs.deleted = appendRange(cs.deleted, op.I1, op.I2)
			cs.inserted = appendRange(cs.inserted, op.J1, op.J2)
		case 'e':
			for k := 0; k < op.I2-op.I1; k++ {
				if !equal(old[op.I1+k], new[op.J1+k]) {
					cs.changed = append(cs.changed, op.J1+k)
				}
			}
		}
	}
	return cs
}

func appendRange(out []int, from, to int) []int {
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// comparableKeys interns values so that equal values share a token.
func comparableKeys[T comparable](old, new []T) ([]string, []string) {
	tokens := make(map[T]string, len(old)+len(new))
	intern := func(vv []T) []string {
		out := make([]string, len(vv))
		for i, v := range vv {
			tok, ok := tokens[v]
			if !ok {
				tok = strconv.Itoa(len(tokens))
				tokens[v] = tok
			}
			out[i] = tok
		}
		return out
	}
	return intern(old), intern(new)
}

// identityKeys uses the element identity as token.
func identityKeys[T any](identity func(T) string) keyFunc[T] {
	return func(old, new []T) ([]string, []string) {
		mapKeys := func(vv []T) []string {
			out := make([]string, len(vv))
			for i, v := range vv {
				out[i] = identity(v)
			}
			return out
		}
		return mapKeys(old), mapKeys(new)
	}
}
