package model

import (
	"errors"

	"github.com/a1s/gridbuf/internal/model1"
)

var (
	// ErrOutOfRange is returned when a position falls outside the buffer.
	ErrOutOfRange = errors.New("position out of range")

	// ErrUpdatePending is returned by in-place writes while an asynchronous
	// update has not been applied yet.
	ErrUpdatePending = errors.New("asynchronous update pending")

	// ErrNoAccessor is returned when a watcher has nothing to pull from.
	ErrNoAccessor = errors.New("no accessor configured")

	// ErrNoUpdater is returned when a watcher has nowhere to push rows.
	ErrNoUpdater = errors.New("no updater configured")
)

// BufferDelegate receives buffer content change notifications. A buffer
// holds at most one delegate.
type BufferDelegate interface {
	// WillChangeContent opens an update cycle.
	WillChangeContent()

	// DidDeleteElements reports positions removed from the previous ordering.
	DidDeleteElements(indices []int)

	// DidInsertElements reports positions added to the new ordering.
	DidInsertElements(indices []int)

	// DidChangeElement reports an in-place change at index.
	DidChangeElement(index int)

	// DidChangeContent closes an update cycle.
	DidChangeContent()

	// DidChangeAllContent reports the whole ordering was replaced.
	DidChangeAllContent()
}

// Dispatcher runs fn on the goroutine that owns the UI.
type Dispatcher func(fn func())

// Immediate runs fn on the calling goroutine.
func Immediate(fn func()) {
	fn()
}

// Updater accepts new row snapshots.
type Updater interface {
	Update(values []model1.Row, synchronous bool, completion func())
}

// WatchListener represents a watcher listener.
type WatchListener interface {
	// RowsLoaded notifies a new snapshot was handed to the updater.
	RowsLoaded(*model1.RowEvents)

	// LoadFailed notifies the load failed.
	LoadFailed(error)
}
