package ui

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/a1s/gridbuf/internal/model"
	"github.com/derailed/tview"
)

// RenderFunc renders the element displayed at path.
type RenderFunc[T any] func(view GridView, element T, path IndexPath) *tview.TableCell

// AdapterOption customises a diff adapter.
type AdapterOption[T any] func(*DiffAdapter[T])

// WithGroup sets the grid group the adapter feeds. Defaults to 0.
func WithGroup[T any](group int) AdapterOption[T] {
	return func(a *DiffAdapter[T]) {
		a.group = group
	}
}

// WithRenderer binds render when the adapter is built.
func WithRenderer[T any](render RenderFunc[T]) AdapterOption[T] {
	return func(a *DiffAdapter[T]) {
		a.render = render
	}
}

// WithAdapterLogger sets the adapter logger.
func WithAdapterLogger[T any](l *slog.Logger) AdapterOption[T] {
	return func(a *DiffAdapter[T]) {
		if l != nil {
			a.log = l
		}
	}
}

// pendingChanges accumulates the positions reported during one update cycle.
type pendingChanges struct {
	deleted  map[int]struct{}
	inserted map[int]struct{}
}

func newPendingChanges() *pendingChanges {
	return &pendingChanges{
		deleted:  make(map[int]struct{}),
		inserted: make(map[int]struct{}),
	}
}

// DiffAdapter relays buffer change notifications to a grid view as batched
// item updates, and serves the buffer's elements to the grid as cells.
type DiffAdapter[T any] struct {
	buffer  *model.Buffer[T]
	view    GridView
	group   int
	render  RenderFunc[T]
	bound   bool
	pending *pendingChanges
	log     *slog.Logger
	mx      sync.RWMutex
}

// NewDiffAdapter returns an adapter relaying buf changes to view. The adapter
// becomes the buffer's delegate.
func NewDiffAdapter[T any](buf *model.Buffer[T], view GridView, opts ...AdapterOption[T]) (*DiffAdapter[T], error) {
	if buf == nil {
		return nil, ErrNoBuffer
	}
	if view == nil {
		return nil, ErrNoView
	}

	a := DiffAdapter[T]{
		buffer: buf,
		view:   view,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&a)
	}
	buf.SetDelegate(&a)

	if a.render != nil {
		if err := a.Bind(a.render); err != nil {
			return nil, err
		}
	}

	return &a, nil
}

// NewDiffAdapterFromElements builds a buffer holding elements and returns an
// adapter bound to it.
func NewDiffAdapterFromElements[T comparable](elements []T, view GridView, opts ...AdapterOption[T]) (*DiffAdapter[T], error) {
	return NewDiffAdapter(model.NewBuffer(elements), view, opts...)
}

// Group returns the grid group fed by the adapter.
func (a *DiffAdapter[T]) Group() int {
	return a.group
}

// Buffer returns the backing buffer.
func (a *DiffAdapter[T]) Buffer() *model.Buffer[T] {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.buffer
}

// DisplayedElement returns the element displayed at i. It panics when i is
// out of range.
func (a *DiffAdapter[T]) DisplayedElement(i int) T {
	return a.Buffer().At(i)
}

// ElementAt returns the element displayed at i.
func (a *DiffAdapter[T]) ElementAt(i int) (T, error) {
	return a.Buffer().Get(i)
}

// CountDisplayed returns the number of displayed elements.
func (a *DiffAdapter[T]) CountDisplayed() int {
	return a.Buffer().Len()
}

// Update hands values to the buffer. A nil values slice re-applies the
// buffer filter and sort.
func (a *DiffAdapter[T]) Update(values []T, synchronous bool, completion func()) {
	a.Buffer().Update(values, synchronous, completion)
}

// Bind registers render and installs the adapter as the data source of its
// grid group.
func (a *DiffAdapter[T]) Bind(render RenderFunc[T]) error {
	if render == nil {
		return ErrNoRenderer
	}

	a.mx.Lock()
	view := a.view
	if view == nil {
		a.mx.Unlock()
		return ErrNoView
	}
	a.render, a.bound = render, true
	a.mx.Unlock()

	view.SetDataSource(a.group, a)

	return nil
}

// Rebind switches the adapter to buf, dropping any pending changes, and
// reloads the grid.
func (a *DiffAdapter[T]) Rebind(buf *model.Buffer[T]) error {
	if buf == nil {
		return ErrNoBuffer
	}

	a.mx.Lock()
	old, view := a.buffer, a.view
	a.buffer, a.pending = buf, nil
	a.mx.Unlock()

	if old != nil && old != buf {
		if d := old.Delegate(); d == model.BufferDelegate(a) {
			old.SetDelegate(nil)
		}
	}
	buf.SetDelegate(a)
	if view != nil {
		view.ReloadData()
	}

	return nil
}

// Unbind detaches the adapter from its buffer and grid.
func (a *DiffAdapter[T]) Unbind() {
	a.mx.Lock()
	buf, view, bound := a.buffer, a.view, a.bound
	a.view, a.bound, a.pending = nil, false, nil
	a.mx.Unlock()

	if buf != nil && buf.Delegate() == model.BufferDelegate(a) {
		buf.SetDelegate(nil)
	}
	if view != nil && bound {
		view.RemoveDataSource(a.group)
	}
}

// ItemCount returns the number of displayed elements of group.
func (a *DiffAdapter[T]) ItemCount(group int) int {
	if group != a.group {
		return 0
	}
	return a.CountDisplayed()
}

// Cell renders the element displayed at item.
func (a *DiffAdapter[T]) Cell(group, item int) (*tview.TableCell, error) {
	a.mx.RLock()
	render, view, buf := a.render, a.view, a.buffer
	a.mx.RUnlock()

	if render == nil {
		return nil, ErrNoRenderer
	}
	if group != a.group {
		return nil, fmt.Errorf("%w: group %d not served by adapter for group %d", model.ErrOutOfRange, group, a.group)
	}
	e, err := buf.Get(item)
	if err != nil {
		return nil, err
	}

	return render(view, e, IndexPath{Group: group, Item: item}), nil
}

// WillChangeContent opens an update cycle.
func (a *DiffAdapter[T]) WillChangeContent() {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.pending != nil {
		a.log.Warn("Update cycle restarted before completion",
			slog.Int("group", a.group),
			slog.Int("deleted", len(a.pending.deleted)),
			slog.Int("inserted", len(a.pending.inserted)),
		)
	}
	a.pending = newPendingChanges()
}

// DidDeleteElements records deleted positions.
func (a *DiffAdapter[T]) DidDeleteElements(indices []int) {
	a.mx.Lock()
	defer a.mx.Unlock()

	p := a.openCycle("delete")
	for _, i := range indices {
		p.deleted[i] = struct{}{}
	}
}

// DidInsertElements records inserted positions.
func (a *DiffAdapter[T]) DidInsertElements(indices []int) {
	a.mx.Lock()
	defer a.mx.Unlock()

	p := a.openCycle("insert")
	for _, i := range indices {
		p.inserted[i] = struct{}{}
	}
}

// DidChangeContent closes the update cycle and issues one batch holding the
// recorded inserts and deletes.
func (a *DiffAdapter[T]) DidChangeContent() {
	a.mx.Lock()
	p, view := a.pending, a.view
	a.pending = nil
	a.mx.Unlock()

	if p == nil {
		a.log.Debug("Content change without open cycle", slog.Int("group", a.group))
		return
	}
	if view == nil {
		return
	}

	ins, del := a.paths(p.inserted), a.paths(p.deleted)
	err := view.PerformBatchUpdates(func() {
		if len(ins) > 0 {
			view.InsertItems(ins)
		}
		if len(del) > 0 {
			view.DeleteItems(del)
		}
	}, nil)
	if err != nil {
		a.log.Warn("Batch update rejected", slog.Int("group", a.group), slog.Any("error", err))
	}
}

// DidChangeElement reloads the item at i.
func (a *DiffAdapter[T]) DidChangeElement(i int) {
	a.mx.RLock()
	view := a.view
	a.mx.RUnlock()

	if view != nil {
		view.ReloadItems([]IndexPath{{Group: a.group, Item: i}})
	}
}

// DidChangeAllContent drops pending changes and reloads the grid.
func (a *DiffAdapter[T]) DidChangeAllContent() {
	a.mx.Lock()
	a.pending = nil
	view := a.view
	a.mx.Unlock()

	if view != nil {
		view.ReloadData()
	}
}

// openCycle returns the pending changes, opening a cycle when none is.
// Callers hold mx.
func (a *DiffAdapter[T]) openCycle(op string) *pendingChanges {
	if a.pending == nil {
		a.log.Warn("Change reported outside update cycle", slog.String("op", op), slog.Int("group", a.group))
		a.pending = newPendingChanges()
	}
	return a.pending
}

func (a *DiffAdapter[T]) paths(set map[int]struct{}) []IndexPath {
	ii := make([]int, 0, len(set))
	for i := range set {
		ii = append(ii, i)
	}
	slices.Sort(ii)

	pp := make([]IndexPath, len(ii))
	for k, i := range ii {
		pp[k] = IndexPath{Group: a.group, Item: i}
	}
	return pp
}
