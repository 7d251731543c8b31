// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// DefaultGridColumns is used when a grid is given a non positive column count.
const DefaultGridColumns = 4

// section caches the cells of one group.
type section struct {
	ds    DataSource
	title string
	cells []*tview.TableCell
}

// batch records the changes issued inside PerformBatchUpdates.
type batch struct {
	deleted  map[int][]int
	inserted map[int][]int
	reloaded map[int][]int
}

func newBatch() *batch {
	return &batch{
		deleted:  make(map[int][]int),
		inserted: make(map[int][]int),
		reloaded: make(map[int][]int),
	}
}

func (b *batch) groups() []int {
	gg := make([]int, 0, len(b.deleted)+len(b.inserted)+len(b.reloaded))
	for _, m := range []map[int][]int{b.deleted, b.inserted, b.reloaded} {
		for g := range m {
			gg = append(gg, g)
		}
	}
	slices.Sort(gg)
	return slices.Compact(gg)
}

// Grid lays out grouped cells as a flow grid on a table. Each group starts
// with a title row followed by its items, columns per row.
type Grid struct {
	*tview.Table

	columns  int
	sections map[int]*section
	batch    *batch
	actions  *KeyActions
	log      *slog.Logger
	mx       sync.RWMutex
}

// NewGrid returns a new grid.
func NewGrid(columns int) *Grid {
	if columns <= 0 {
		columns = DefaultGridColumns
	}
	return &Grid{
		Table:    tview.NewTable(),
		columns:  columns,
		sections: make(map[int]*section),
		actions:  NewKeyActions(),
		log:      slog.Default(),
	}
}

// Init initializes the grid component.
func (g *Grid) Init() {
	g.SetBorder(true)
	g.SetBorderAttributes(tcell.AttrBold)
	g.SetBorderPadding(0, 0, 1, 1)
	g.SetSelectable(true, true)
	g.SetBackgroundColor(tcell.ColorDefault)
	g.SetBorderColor(tcell.ColorWhite)
	g.SetInputCapture(g.keyboard)
}

// SetLogger sets the grid logger.
func (g *Grid) SetLogger(l *slog.Logger) {
	if l != nil {
		g.log = l
	}
}

// Actions returns the key actions.
func (g *Grid) Actions() *KeyActions {
	return g.actions
}

// Hints returns menu hints for key bindings.
func (g *Grid) Hints() MenuHints {
	return g.actions.Hints()
}

// Columns returns the number of cells per row.
func (g *Grid) Columns() int {
	g.mx.RLock()
	defer g.mx.RUnlock()

	return g.columns
}

// SetColumns changes the number of cells per row.
func (g *Grid) SetColumns(n int) {
	if n <= 0 {
		return
	}
	g.mx.Lock()
	g.columns = n
	g.mx.Unlock()

	g.layout()
}

// SetGroupTitle sets the title row of a group.
func (g *Grid) SetGroupTitle(group int, title string) {
	g.mx.Lock()
	s, ok := g.sections[group]
	if !ok {
		s = &section{}
		g.sections[group] = s
	}
	s.title = title
	g.mx.Unlock()

	g.layout()
}

// SetDataSource installs ds for a group and loads its cells.
func (g *Grid) SetDataSource(group int, ds DataSource) {
	g.mx.Lock()
	s, ok := g.sections[group]
	if !ok {
		s = &section{}
		g.sections[group] = s
	}
	s.ds = ds
	g.reloadSection(group, s)
	g.mx.Unlock()

	g.layout()
}

// RemoveDataSource drops a group.
func (g *Grid) RemoveDataSource(group int) {
	g.mx.Lock()
	delete(g.sections, group)
	g.mx.Unlock()

	g.layout()
}

// ItemCount returns the number of cached cells of a group.
func (g *Grid) ItemCount(group int) int {
	g.mx.RLock()
	defer g.mx.RUnlock()

	if s, ok := g.sections[group]; ok {
		return len(s.cells)
	}
	return 0
}

// CellAt returns the cached cell at path.
func (g *Grid) CellAt(path IndexPath) *tview.TableCell {
	g.mx.RLock()
	defer g.mx.RUnlock()

	s, ok := g.sections[path.Group]
	if !ok || path.Item < 0 || path.Item >= len(s.cells) {
		return nil
	}
	return s.cells[path.Item]
}

// PerformBatchUpdates runs updates and applies the recorded deletes then
// inserts in one pass. When a group ends up with a count different from its
// data source the whole grid is reloaded and ErrInconsistentUpdate returned.
func (g *Grid) PerformBatchUpdates(updates func(), completion func(bool)) error {
	g.mx.Lock()
	if g.batch != nil {
		g.mx.Unlock()
		if updates != nil {
			updates()
		}
		if completion != nil {
			completion(true)
		}
		return nil
	}
	g.batch = newBatch()
	g.mx.Unlock()

	if updates != nil {
		updates()
	}

	g.mx.Lock()
	b := g.batch
	g.batch = nil
	err := g.applyBatch(b)
	g.mx.Unlock()

	if err != nil {
		g.log.Warn("Batch update failed, reloading", slog.Any("error", err))
		g.ReloadData()
	} else {
		g.layout()
	}
	if completion != nil {
		completion(err == nil)
	}

	return err
}

// InsertItems inserts cells at new positions.
func (g *Grid) InsertItems(paths []IndexPath) {
	g.mx.Lock()
	if g.batch != nil {
		record(g.batch.inserted, paths)
		g.mx.Unlock()
		return
	}
	b := newBatch()
	record(b.inserted, paths)
	err := g.applyBatch(b)
	g.mx.Unlock()

	g.settle(err)
}

// DeleteItems removes cells at old positions.
func (g *Grid) DeleteItems(paths []IndexPath) {
	g.mx.Lock()
	if g.batch != nil {
		record(g.batch.deleted, paths)
		g.mx.Unlock()
		return
	}
	b := newBatch()
	record(b.deleted, paths)
	err := g.applyBatch(b)
	g.mx.Unlock()

	g.settle(err)
}

// ReloadItems pulls fresh cells for the given positions.
func (g *Grid) ReloadItems(paths []IndexPath) {
	g.mx.Lock()
	if g.batch != nil {
		record(g.batch.reloaded, paths)
		g.mx.Unlock()
		return
	}
	for _, p := range paths {
		s, ok := g.sections[p.Group]
		if !ok || s.ds == nil || p.Item < 0 || p.Item >= len(s.cells) {
			g.log.Debug("Reload skipped", slog.String("path", p.String()))
			continue
		}
		s.cells[p.Item] = g.pull(s.ds, p)
	}
	g.mx.Unlock()

	g.layout()
}

// ReloadData drops every cached cell and pulls them again.
func (g *Grid) ReloadData() {
	g.mx.Lock()
	for group, s := range g.sections {
		g.reloadSection(group, s)
	}
	g.mx.Unlock()

	g.layout()
}

// PathAt returns the item displayed at a table position.
func (g *Grid) PathAt(row, col int) (IndexPath, bool) {
	g.mx.RLock()
	defer g.mx.RUnlock()

	r := 0
	for _, group := range g.groupOrder() {
		s := g.sections[group]
		r++
		rows := rowsFor(len(s.cells), g.columns)
		if row >= r && row < r+rows {
			item := (row-r)*g.columns + col
			if col >= g.columns || item >= len(s.cells) {
				return IndexPath{}, false
			}
			return IndexPath{Group: group, Item: item}, true
		}
		r += rows
	}

	return IndexPath{}, false
}

// Selected returns the item under the cursor.
func (g *Grid) Selected() (IndexPath, bool) {
	return g.PathAt(g.GetSelection())
}

func (g *Grid) settle(err error) {
	if err != nil {
		g.log.Warn("Item update failed, reloading", slog.Any("error", err))
		g.ReloadData()
		return
	}
	g.layout()
}

// applyBatch mutates the cell caches. Callers hold mx.
func (g *Grid) applyBatch(b *batch) error {
	for _, group := range b.groups() {
		s, ok := g.sections[group]
		if !ok || s.ds == nil {
			g.log.Debug("Batch for unbound group ignored", slog.Int("group", group))
			continue
		}

		del := slices.Clone(b.deleted[group])
		slices.Sort(del)
		del = slices.Compact(del)
		for i := len(del) - 1; i >= 0; i-- {
			item := del[i]
			if item < 0 || item >= len(s.cells) {
				return fmt.Errorf("%w: delete %d from group %d holding %d", ErrInconsistentUpdate, item, group, len(s.cells))
			}
			s.cells = slices.Delete(s.cells, item, item+1)
		}

		ins := slices.Clone(b.inserted[group])
		slices.Sort(ins)
		ins = slices.Compact(ins)
		for _, item := range ins {
			if item < 0 || item > len(s.cells) {
				return fmt.Errorf("%w: insert %d into group %d holding %d", ErrInconsistentUpdate, item, group, len(s.cells))
			}
			s.cells = slices.Insert(s.cells, item, g.pull(s.ds, IndexPath{Group: group, Item: item}))
		}

		if n := s.ds.ItemCount(group); n != len(s.cells) {
			return fmt.Errorf("%w: group %d holds %d items, source reports %d", ErrInconsistentUpdate, group, len(s.cells), n)
		}

		for _, item := range b.reloaded[group] {
			if item >= 0 && item < len(s.cells) {
				s.cells[item] = g.pull(s.ds, IndexPath{Group: group, Item: item})
			}
		}
	}

	return nil
}

// reloadSection refills a group from its data source. Callers hold mx.
func (g *Grid) reloadSection(group int, s *section) {
	if s.ds == nil {
		s.cells = nil
		return
	}
	n := s.ds.ItemCount(group)
	cells := make([]*tview.TableCell, n)
	for i := range n {
		cells[i] = g.pull(s.ds, IndexPath{Group: group, Item: i})
	}
	s.cells = cells
}

func (g *Grid) pull(ds DataSource, p IndexPath) *tview.TableCell {
	c, err := ds.Cell(p.Group, p.Item)
	if err != nil || c == nil {
		g.log.Warn("Unable to render cell", slog.String("path", p.String()), slog.Any("error", err))
		c = tview.NewTableCell("<n/a>")
		c.SetTextColor(tcell.ColorRed)
	}
	return c
}

// groupOrder returns the groups in ascending order. Callers hold mx.
func (g *Grid) groupOrder() []int {
	gg := make([]int, 0, len(g.sections))
	for group := range g.sections {
		gg = append(gg, group)
	}
	slices.Sort(gg)
	return gg
}

// layout redraws the table from the cell caches.
func (g *Grid) layout() {
	g.mx.RLock()
	defer g.mx.RUnlock()

	row, col := g.GetSelection()
	g.Clear()

	r := 0
	for _, group := range g.groupOrder() {
		s := g.sections[group]
		title := s.title
		if title == "" {
			title = fmt.Sprintf("group %d", group)
		}
		tc := tview.NewTableCell(fmt.Sprintf("%s [%d]", title, len(s.cells)))
		tc.SetTextColor(tcell.ColorYellow)
		tc.SetAttributes(tcell.AttrBold)
		tc.SetSelectable(false)
		g.SetCell(r, 0, tc)
		r++

		for i, c := range s.cells {
			c.SetExpansion(1)
			g.SetCell(r+i/g.columns, i%g.columns, c)
		}
		r += rowsFor(len(s.cells), g.columns)
	}

	if r > 0 {
		g.Select(max(row, 1), col)
	}
}

// keyboard handles grid keyboard input.
func (g *Grid) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := g.GetSelection()

	switch AsKey(evt) {
	case KeyJ:
		if row < g.GetRowCount()-1 {
			g.Select(row+1, col)
		}
		return nil
	case KeyK:
		if row > 1 {
			g.Select(row-1, col)
		}
		return nil
	case KeyH:
		if col > 0 {
			g.Select(row, col-1)
		}
		return nil
	case KeyL:
		if col < g.Columns()-1 {
			g.Select(row, col+1)
		}
		return nil
	case KeyG:
		g.Select(1, 0)
		return nil
	case KeyShiftG:
		g.Select(g.GetRowCount()-1, 0)
		return nil
	}

	if a, ok := g.actions.Get(AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

func record(m map[int][]int, paths []IndexPath) {
	for _, p := range paths {
		m[p.Group] = append(m[p.Group], p.Item)
	}
}

func rowsFor(n, cols int) int {
	if n == 0 {
		return 0
	}
	return (n + cols - 1) / cols
}
