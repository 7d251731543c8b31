package model

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// DefaultDiffThreshold is the ordering size above which a buffer stops
// diffing and reports a full content change instead.
const DefaultDiffThreshold = 10_000

// BufferOption customises a buffer.
type BufferOption[T any] func(*Buffer[T])

// WithFilter keeps only the elements accepted by f.
func WithFilter[T any](f func(T) bool) BufferOption[T] {
	return func(b *Buffer[T]) {
		b.filter = f
	}
}

// WithSort orders the elements using less. The sort is stable.
func WithSort[T any](less func(a, b T) bool) BufferOption[T] {
	return func(b *Buffer[T]) {
		b.less = less
	}
}

// WithDispatcher sets how asynchronous results reach the UI goroutine.
func WithDispatcher[T any](d Dispatcher) BufferOption[T] {
	return func(b *Buffer[T]) {
		if d != nil {
			b.dispatch = d
		}
	}
}

// WithDiffThreshold overrides DefaultDiffThreshold.
func WithDiffThreshold[T any](n int) BufferOption[T] {
	return func(b *Buffer[T]) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithLogger sets the buffer logger.
func WithLogger[T any](l *slog.Logger) BufferOption[T] {
	return func(b *Buffer[T]) {
		if l != nil {
			b.log = l
		}
	}
}

// result is a computed update waiting to be applied.
// Results are numbered in the order they are prepared.
type result[T any] struct {
	gen     uint64
	values  []T
	changes changeSet
	all     bool
}

type asyncJob[T any] struct {
	values     []T
	completion func()
}

// Buffer is an ordered collection that diffs successive snapshots and
// reports the changes to its delegate.
//
// The displayed ordering (front) is only written while applying an update,
// which happens on the caller goroutine for synchronous updates and through
// the dispatcher for asynchronous ones.
type Buffer[T any] struct {
	source    []T
	back      []T
	front     []T
	keys      keyFunc[T]
	equal     func(a, b T) bool
	same      func(a, b T) bool
	filter    func(T) bool
	less      func(a, b T) bool
	delegate  BufferDelegate
	dispatch  Dispatcher
	threshold int
	pending   int
	gen       uint64
	applied   uint64
	log       *slog.Logger

	queue  []asyncJob[T]
	closed bool
	wake   chan struct{}
	once   sync.Once
	cancel context.CancelFunc

	diffMx  sync.Mutex
	queueMx sync.Mutex
	mx      sync.RWMutex
}

// NewBuffer returns a buffer of comparable elements. Equal values are the
// same element.
func NewBuffer[T comparable](initial []T, opts ...BufferOption[T]) *Buffer[T] {
	eq := func(a, b T) bool { return a == b }
	return newBuffer(initial, comparableKeys[T], eq, eq, opts)
}

// NewBufferFunc returns a buffer whose elements are matched by identity and
// compared with equal. Elements keeping their identity but failing equal are
// reported as in-place changes.
func NewBufferFunc[T any](initial []T, identity func(T) string, equal func(a, b T) bool, opts ...BufferOption[T]) *Buffer[T] {
	same := func(a, b T) bool { return identity(a) == identity(b) }
	return newBuffer(initial, identityKeys(identity), equal, same, opts)
}

func newBuffer[T any](initial []T, keys keyFunc[T], equal, same func(a, b T) bool, opts []BufferOption[T]) *Buffer[T] {
	b := Buffer[T]{
		source:    slices.Clone(initial),
		keys:      keys,
		equal:     equal,
		same:      same,
		dispatch:  Immediate,
		threshold: DefaultDiffThreshold,
		log:       slog.Default(),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.back = b.arrange(b.source)
	b.front = b.back

	return &b
}

// SetDelegate registers d as the sole delegate and returns the previous one.
func (b *Buffer[T]) SetDelegate(d BufferDelegate) BufferDelegate {
	b.mx.Lock()
	defer b.mx.Unlock()

	old := b.delegate
	b.delegate = d
	return old
}

// Delegate returns the current delegate.
func (b *Buffer[T]) Delegate() BufferDelegate {
	b.mx.RLock()
	defer b.mx.RUnlock()

	return b.delegate
}

// SetFilter changes the filter. It takes effect on the next update.
func (b *Buffer[T]) SetFilter(f func(T) bool) {
	b.diffMx.Lock()
	defer b.diffMx.Unlock()

	b.filter = f
}

// SetSort changes the ordering. It takes effect on the next update.
func (b *Buffer[T]) SetSort(less func(a, b T) bool) {
	b.diffMx.Lock()
	defer b.diffMx.Unlock()

	b.less = less
}

// Len returns the size of the displayed ordering.
func (b *Buffer[T]) Len() int {
	b.mx.RLock()
	defer b.mx.RUnlock()

	return len(b.front)
}

// At returns the displayed element at i. It panics when i is out of range.
func (b *Buffer[T]) At(i int) T {
	b.mx.RLock()
	defer b.mx.RUnlock()

	return b.front[i]
}

// Get returns the displayed element at i.
func (b *Buffer[T]) Get(i int) (T, error) {
	b.mx.RLock()
	defer b.mx.RUnlock()

	if i < 0 || i >= len(b.front) {
		var zero T
		return zero, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(b.front))
	}
	return b.front[i], nil
}

// Elements returns a copy of the displayed ordering.
func (b *Buffer[T]) Elements() []T {
	b.mx.RLock()
	defer b.mx.RUnlock()

	return slices.Clone(b.front)
}

// Refresh re-applies the filter and sort to the current values.
func (b *Buffer[T]) Refresh() {
	b.Update(nil, false, nil)
}

// Update replaces the values, recomputes the displayed ordering and notifies
// the delegate of the differences. A nil values slice keeps the current
// values. Synchronous updates are applied before Update returns; asynchronous
// ones are diffed on a background goroutine in call order and applied through
// the dispatcher. completion runs once the update has been applied or
// superseded by a newer one. Asynchronous updates made after Close are dropped.
func (b *Buffer[T]) Update(values []T, synchronous bool, completion func()) {
	if values != nil {
		values = slices.Clone(values)
	}
	if synchronous {
		b.diffMx.Lock()
		res := b.prepare(values)
		b.diffMx.Unlock()

		b.apply(res, completion)
		return
	}

	b.once.Do(b.start)
	b.queueMx.Lock()
	if b.closed {
		b.queueMx.Unlock()
		b.log.Warn("Update dropped on closed buffer", slog.Int("values", len(values)))
		return
	}
	b.queue = append(b.queue, asyncJob[T]{values: values, completion: completion})
	b.queueMx.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Set replaces the displayed element at i and reports an in-place change.
// The matching source value is replaced as well so the change survives the
// next refresh.
func (b *Buffer[T]) Set(i int, v T) error {
	b.diffMx.Lock()
	b.mx.Lock()
	if b.pending > 0 {
		b.mx.Unlock()
		b.diffMx.Unlock()
		return ErrUpdatePending
	}
	if i < 0 || i >= len(b.front) {
		n := len(b.front)
		b.mx.Unlock()
		b.diffMx.Unlock()
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, n)
	}
	old := b.front[i]
	front := slices.Clone(b.front)
	front[i] = v
	b.front, b.back = front, front
	if j := slices.IndexFunc(b.source, func(s T) bool { return b.same(s, old) }); j >= 0 {
		b.source[j] = v
	}
	d := b.delegate
	b.mx.Unlock()
	b.diffMx.Unlock()

	if d != nil {
		d.DidChangeElement(i)
	}
	return nil
}

// Close stops the asynchronous worker. Queued updates are dropped.
func (b *Buffer[T]) Close() {
	b.once.Do(func() {})
	b.queueMx.Lock()
	b.queue, b.closed = nil, true
	cancel := b.cancel
	b.queueMx.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (b *Buffer[T]) start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.queueMx.Lock()
	b.cancel = cancel
	b.queueMx.Unlock()

	go b.run(ctx)
}

func (b *Buffer[T]) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
		}
		for {
			b.queueMx.Lock()
			if len(b.queue) == 0 {
				b.queueMx.Unlock()
				break
			}
			job := b.queue[0]
			b.queue = b.queue[1:]
			b.queueMx.Unlock()

			b.runJob(job)
		}
	}
}

// runJob diffs against the previous job's result and hands the apply to the
// dispatcher. Jobs run on a single worker so applies are dispatched in the
// order their diffs were computed.
func (b *Buffer[T]) runJob(job asyncJob[T]) {
	b.diffMx.Lock()
	res := b.prepare(job.values)
	b.mx.Lock()
	b.pending++
	b.mx.Unlock()
	b.diffMx.Unlock()

	b.dispatch(func() {
		b.mx.Lock()
		b.pending--
		b.mx.Unlock()
		b.apply(res, job.completion)
	})
}

// prepare computes the next ordering and its diff. Callers hold diffMx.
func (b *Buffer[T]) prepare(values []T) result[T] {
	if values != nil {
		b.source = values
	}
	next := b.arrange(b.source)
	old := b.back
	b.back = next
	b.gen++

	if len(old) > b.threshold || len(next) > b.threshold {
		b.log.Debug("Diff threshold exceeded",
			slog.Int("old", len(old)),
			slog.Int("new", len(next)),
			slog.Int("threshold", b.threshold),
		)
		return result[T]{gen: b.gen, values: next, all: true}
	}

	return result[T]{gen: b.gen, values: next, changes: diff(old, next, b.keys, b.equal)}
}

// apply installs res as the displayed ordering. A result older than the
// displayed one is dropped. A result whose diff base was never displayed is
// reported as a full content change.
func (b *Buffer[T]) apply(res result[T], completion func()) {
	b.mx.Lock()
	if res.gen <= b.applied {
		b.mx.Unlock()
		b.log.Debug("Stale update dropped", slog.Uint64("gen", res.gen), slog.Uint64("applied", b.applied))
		if completion != nil {
			completion()
		}
		return
	}
	if res.gen-1 != b.applied {
		res.all = true
	}
	b.front, b.applied = res.values, res.gen
	d := b.delegate
	b.mx.Unlock()

	if d != nil {
		notify(d, res)
	}
	if completion != nil {
		completion()
	}
}

func notify[T any](d BufferDelegate, res result[T]) {
	if res.all {
		d.DidChangeAllContent()
		return
	}
	cs := res.changes
	if cs.empty() {
		return
	}
	if cs.structural() {
		d.WillChangeContent()
		if len(cs.deleted) > 0 {
			d.DidDeleteElements(cs.deleted)
		}
		if len(cs.inserted) > 0 {
			d.DidInsertElements(cs.inserted)
		}
		d.DidChangeContent()
	}
	for _, i := range cs.changed {
		d.DidChangeElement(i)
	}
}

func (b *Buffer[T]) arrange(values []T) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		if b.filter != nil && !b.filter(v) {
			continue
		}
		out = append(out, v)
	}
	if b.less != nil {
		slices.SortStableFunc(out, func(x, y T) int {
			switch {
			case b.less(x, y):
				return -1
			case b.less(y, x):
				return 1
			default:
				return 0
			}
		})
	}
	return out
}
