// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/a1s/gridbuf/internal/config"
	"github.com/a1s/gridbuf/internal/dao"
	"github.com/a1s/gridbuf/internal/model"
	"github.com/a1s/gridbuf/internal/model1"
	"github.com/a1s/gridbuf/internal/render"
	"github.com/a1s/gridbuf/internal/ui"
)

// BrowserListener receives browser load results.
type BrowserListener interface {
	// BrowserLoaded is called once a refresh reached the grid.
	BrowserLoaded(count int, events *model1.RowEvents)

	// BrowserFailed is called when a refresh failed.
	BrowserFailed(err error)
}

// dispatchedUpdater runs synchronous updates through the dispatcher so grid
// mutations stay on the UI goroutine.
type dispatchedUpdater struct {
	adapter  *ui.DiffAdapter[model1.Row]
	dispatch model.Dispatcher
}

func (u dispatchedUpdater) Update(values []model1.Row, synchronous bool, completion func()) {
	if !synchronous {
		u.adapter.Update(values, false, completion)
		return
	}
	u.dispatch(func() {
		u.adapter.Update(values, true, completion)
	})
}

// Browser keeps a grid group in sync with the rows of an accessor.
type Browser struct {
	accessor dao.Accessor
	header   model1.Header
	buffer   *model.Buffer[model1.Row]
	adapter  *ui.DiffAdapter[model1.Row]
	watcher  *model.Watcher
	renderer *render.Row
	sortCol  int
	asc      bool
	filter   string
	listener BrowserListener
	log      *slog.Logger
	mx       sync.RWMutex
}

// NewBrowser wires accessor rows into group 0 of view.
func NewBrowser(accessor dao.Accessor, view ui.GridView, cfg *config.Gridbuf, dispatch model.Dispatcher, log *slog.Logger) (*Browser, error) {
	if log == nil {
		log = slog.Default()
	}
	if dispatch == nil {
		dispatch = model.Immediate
	}

	b := Browser{
		accessor: accessor,
		header:   accessor.Header(),
		asc:      true,
		log:      log,
	}
	if idx, ok := b.header.IndexOf(cfg.SortColumn); ok {
		b.sortCol = idx
	}

	b.buffer = model.NewBufferFunc(nil, model1.Row.Identity, model1.Row.Equal,
		model.WithSort(model1.RowLess(b.header, b.sortCol, b.asc)),
		model.WithDispatcher[model1.Row](dispatch),
		model.WithDiffThreshold[model1.Row](cfg.DiffThreshold),
		model.WithLogger[model1.Row](log),
	)
	b.watcher = model.NewWatcher(accessor, nil, cfg.RefreshInterval())
	b.watcher.SetLogger(log)
	b.watcher.SetSynchronous(cfg.Synchronous)
	b.renderer = render.NewRow(b.header, b.watcher.Events)

	adapter, err := ui.NewDiffAdapter(b.buffer, view,
		ui.WithRenderer[model1.Row](b.renderer.Render),
		ui.WithAdapterLogger[model1.Row](log),
	)
	if err != nil {
		return nil, err
	}
	b.adapter = adapter
	b.watcher.SetUpdater(dispatchedUpdater{adapter: adapter, dispatch: dispatch})
	b.watcher.AddListener(&b)

	return &b, nil
}

// SetListener registers the browser listener.
func (b *Browser) SetListener(l BrowserListener) {
	b.mx.Lock()
	defer b.mx.Unlock()

	b.listener = l
}

// Header returns the row header.
func (b *Browser) Header() model1.Header {
	return b.header
}

// Adapter returns the grid adapter.
func (b *Browser) Adapter() *ui.DiffAdapter[model1.Row] {
	return b.adapter
}

// Renderer returns the cell renderer.
func (b *Browser) Renderer() *render.Row {
	return b.renderer
}

// Start loads the rows and keeps refreshing them until ctx is done.
func (b *Browser) Start(ctx context.Context) error {
	return b.watcher.Watch(ctx)
}

// Stop terminates the refresh loop and the buffer worker.
func (b *Browser) Stop() {
	b.watcher.Stop()
	b.buffer.Close()
}

// Refresh reloads the rows now.
func (b *Browser) Refresh(ctx context.Context) error {
	return b.watcher.Refresh(ctx)
}

// SortColumn returns the sort column name and direction.
func (b *Browser) SortColumn() (string, bool) {
	b.mx.RLock()
	defer b.mx.RUnlock()

	if b.sortCol >= len(b.header) {
		return "", b.asc
	}
	return b.header[b.sortCol].Name, b.asc
}

// CycleSort sorts on the next column. Wrapping around flips the direction.
func (b *Browser) CycleSort() string {
	b.mx.Lock()
	if len(b.header) == 0 {
		b.mx.Unlock()
		return ""
	}
	b.sortCol++
	if b.sortCol >= len(b.header) {
		b.sortCol, b.asc = 0, !b.asc
	}
	col, asc := b.sortCol, b.asc
	b.mx.Unlock()

	b.buffer.SetSort(model1.RowLess(b.header, col, asc))
	b.adapter.Update(nil, false, nil)

	return b.header[col].Name
}

// CycleDetail shows the next column next to the row title.
func (b *Browser) CycleDetail() string {
	names := b.header.ColumnNames()
	current := b.renderer.Detail()
	next := ""
	for i, n := range names {
		if n == current {
			if i+1 < len(names) {
				next = names[i+1]
			}
			break
		}
	}
	if current == "" && len(names) > 1 {
		next = names[1]
	}
	b.renderer.SetDetail(next)
	b.adapter.DidChangeAllContent()

	return b.renderer.Detail()
}

// SetFilter keeps only rows with a field containing text. Blank text clears
// the filter.
func (b *Browser) SetFilter(text string) {
	b.mx.Lock()
	b.filter = text
	b.mx.Unlock()

	if text == "" {
		b.buffer.SetFilter(nil)
	} else {
		b.buffer.SetFilter(rowFilter(text))
	}
	b.adapter.Update(nil, false, nil)
}

// Filter returns the current filter text.
func (b *Browser) Filter() string {
	b.mx.RLock()
	defer b.mx.RUnlock()

	return b.filter
}

// Describe summarizes the row displayed at item.
func (b *Browser) Describe(item int) (string, error) {
	row, err := b.adapter.ElementAt(item)
	if err != nil {
		return "", err
	}

	ff := make([]string, 0, len(b.header))
	for i, h := range b.header {
		ff = append(ff, fmt.Sprintf("%s=%s", strings.ToLower(h.Name), render.FormatField(b.header, i, row.Field(i))))
	}
	return row.ID + ": " + strings.Join(ff, " "), nil
}

// RowsLoaded implements model.WatchListener.
func (b *Browser) RowsLoaded(events *model1.RowEvents) {
	b.mx.RLock()
	l := b.listener
	b.mx.RUnlock()

	if l != nil {
		l.BrowserLoaded(b.adapter.CountDisplayed(), events)
	}
}

// LoadFailed implements model.WatchListener.
func (b *Browser) LoadFailed(err error) {
	b.log.Error("Load failed", slog.Any("error", err))

	b.mx.RLock()
	l := b.listener
	b.mx.RUnlock()

	if l != nil {
		l.BrowserFailed(err)
	}
}

func rowFilter(text string) func(model1.Row) bool {
	q := strings.ToLower(text)
	return func(r model1.Row) bool {
		if strings.Contains(strings.ToLower(r.ID), q) {
			return true
		}
		for _, f := range r.Fields {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}
}
