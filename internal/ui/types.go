package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/derailed/tview"
)

var (
	// ErrNoRenderer is returned when a cell is requested from an adapter
	// that has no render function.
	ErrNoRenderer = errors.New("no render function bound")

	// ErrNoBuffer is returned when an adapter is built without a buffer.
	ErrNoBuffer = errors.New("no buffer")

	// ErrNoView is returned when an adapter is built without a grid view.
	ErrNoView = errors.New("no grid view")

	// ErrInconsistentUpdate is returned when a batch leaves a group with a
	// different item count than its data source reports.
	ErrInconsistentUpdate = errors.New("inconsistent batch update")
)

// IndexPath addresses an item within a grid group.
type IndexPath struct {
	Group int
	Item  int
}

// String returns the path as group:item.
func (p IndexPath) String() string {
	return fmt.Sprintf("%d:%d", p.Group, p.Item)
}

// Compare orders paths by group then item.
func (p IndexPath) Compare(o IndexPath) int {
	switch {
	case p.Group != o.Group:
		return p.Group - o.Group
	default:
		return p.Item - o.Item
	}
}

// DataSource feeds a grid group with cells.
type DataSource interface {
	// ItemCount returns the number of items in the group.
	ItemCount(group int) int

	// Cell returns the rendered cell for an item.
	Cell(group, item int) (*tview.TableCell, error)
}

// GridView represents a grid surface updated incrementally.
type GridView interface {
	// SetDataSource installs ds for a group.
	SetDataSource(group int, ds DataSource)

	// RemoveDataSource drops a group.
	RemoveDataSource(group int)

	// PerformBatchUpdates applies the inserts and deletes issued by updates
	// as a single change.
	PerformBatchUpdates(updates func(), completion func(bool)) error

	// InsertItems inserts cells at the given new positions.
	InsertItems(paths []IndexPath)

	// DeleteItems removes cells at the given old positions.
	DeleteItems(paths []IndexPath)

	// ReloadItems refreshes cells at the given positions.
	ReloadItems(paths []IndexPath)

	// ReloadData refreshes every group.
	ReloadData()
}

// MenuHint represents a keyboard mnemonic.
type MenuHint struct {
	Mnemonic    string
	Description string
	Visible     bool
}

// MenuHints represents a collection of hints.
type MenuHints []MenuHint

// Len returns the hints length.
func (h MenuHints) Len() int {
	return len(h)
}

// Swap swaps two elements.
func (h MenuHints) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Less returns true if first hint is less than second.
func (h MenuHints) Less(i, j int) bool {
	n, err1 := strconv.Atoi(h[i].Mnemonic)
	m, err2 := strconv.Atoi(h[j].Mnemonic)
	if err1 == nil && err2 == nil {
		return n < m
	}
	if err1 == nil && err2 != nil {
		return true
	}
	if err1 != nil && err2 == nil {
		return false
	}
	return h[i].Description < h[j].Description
}

// Hinter represent a menu mnemonic provider.
type Hinter interface {
	// Hints returns a collection of menu hints.
	Hints() MenuHints
}
