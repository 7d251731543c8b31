package model1

import "fmt"

// RowEvent tracks the last change seen for a row.
type RowEvent struct {
	Kind   ResEvent
	Row    Row
	Deltas DeltaRow
}

func NewRowEvent(kind ResEvent, row Row) RowEvent {
	return RowEvent{
		Kind: kind,
		Row:  row,
	}
}

func NewRowEventWithDeltas(row Row, delta DeltaRow) RowEvent {
	return RowEvent{
		Kind:   EventUpdate,
		Row:    row,
		Deltas: delta,
	}
}

func (r RowEvent) Clone() RowEvent {
	return RowEvent{
		Kind:   r.Kind,
		Row:    r.Row.Clone(),
		Deltas: r.Deltas.Clone(),
	}
}

// RowEvents a collection of row events indexed by row ID.
type RowEvents struct {
	events []RowEvent
	index  map[string]int
}

func NewRowEvents(size int) *RowEvents {
	return &RowEvents{
		events: make([]RowEvent, 0, size),
		index:  make(map[string]int, size),
	}
}

// Track classifies each row of next against prev. Rows missing from prev are
// adds, rows whose fields moved are updates carrying their deltas, and rows
// only present in prev are reported as deletes at the end of the collection.
func Track(prev, next Rows, h Header) *RowEvents {
	ageCol, _ := h.IndexOf(ageCol)
	old := prev.Index()
	out := NewRowEvents(len(next))
	seen := make(map[string]struct{}, len(next))
	for _, row := range next {
		seen[row.ID] = struct{}{}
		i, ok := old[row.ID]
		switch {
		case !ok:
			out.Add(NewRowEvent(EventAdd, row))
		case row.Diff(prev[i], ageCol):
			out.Add(NewRowEventWithDeltas(row, NewDeltaRow(prev[i], row, h)))
		default:
			out.Add(NewRowEvent(EventUnchanged, row))
		}
	}
	for _, row := range prev {
		if _, ok := seen[row.ID]; !ok {
			out.Add(NewRowEvent(EventDelete, row))
		}
	}
	return out
}

func (r *RowEvents) reindex() {
	for i, e := range r.events {
		r.index[e.Row.ID] = i
	}
}

func (r *RowEvents) At(i int) (RowEvent, bool) {
	if i < 0 || i >= len(r.events) {
		return RowEvent{}, false
	}
	return r.events[i], true
}

func (r *RowEvents) Add(re RowEvent) {
	r.events = append(r.events, re)
	r.index[re.Row.ID] = len(r.events) - 1
}

func (r *RowEvents) Len() int {
	return len(r.events)
}

func (r *RowEvents) Empty() bool {
	return len(r.events) == 0
}

// Get returns the event recorded for id.
func (r *RowEvents) Get(id string) (RowEvent, bool) {
	if r == nil {
		return RowEvent{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return RowEvent{}, false
	}
	return r.At(i)
}

// Kind returns the event kind recorded for id, EventUnchanged if unknown.
func (r *RowEvents) Kind(id string) ResEvent {
	if r == nil {
		return EventUnchanged
	}
	if re, ok := r.Get(id); ok {
		return re.Kind
	}
	return EventUnchanged
}

func (r *RowEvents) Upsert(re RowEvent) {
	if idx, ok := r.index[re.Row.ID]; ok {
		r.events[idx] = re
		return
	}
	r.Add(re)
}

func (r *RowEvents) Delete(id string) error {
	victim, ok := r.index[id]
	if !ok {
		return fmt.Errorf("unable to delete row with id: %q", id)
	}
	r.events = append(r.events[:victim], r.events[victim+1:]...)
	delete(r.index, id)
	r.reindex()
	return nil
}

// Count returns the number of events of the given kinds.
func (r *RowEvents) Count(kinds ResEvent) int {
	if r == nil {
		return 0
	}
	var n int
	for _, e := range r.events {
		if e.Kind&kinds != 0 {
			n++
		}
	}
	return n
}

func (r *RowEvents) Clone() *RowEvents {
	out := NewRowEvents(len(r.events))
	for _, e := range r.events {
		out.Add(e.Clone())
	}
	return out
}

func (r *RowEvents) Range(f func(int, RowEvent) bool) {
	for i, e := range r.events {
		if !f(i, e) {
			return
		}
	}
}
