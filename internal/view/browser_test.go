// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/a1s/gridbuf/internal/config"
	"github.com/a1s/gridbuf/internal/model1"
	"github.com/a1s/gridbuf/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserLoad(t *testing.T) {
	b, lg, l := newTestBrowser(t, &fakeAccessor{rows: testRows()})
	defer b.Stop()

	require.NoError(t, b.Start(context.Background()))
	assert.Equal(t, 3, lg.Count(0))
	assert.Equal(t, []string{"a", "b", "c"}, displayedIDs(b))
	assert.Equal(t, []int{3}, l.Counts())

	desc, err := b.Describe(1)
	require.NoError(t, err)
	assert.Equal(t, "b: name=bravo value=2", desc)

	_, err = b.Describe(7)
	assert.Error(t, err)
}

func TestBrowserRefresh(t *testing.T) {
	acc := fakeAccessor{rows: testRows()}
	b, lg, l := newTestBrowser(t, &acc)
	defer b.Stop()
	require.NoError(t, b.Start(context.Background()))

	acc.set(model1.Rows{
		{ID: "b", Fields: model1.Fields{"bravo", "20"}},
		{ID: "d", Fields: model1.Fields{"delta", "4"}},
	})
	require.NoError(t, b.Refresh(context.Background()))

	assert.Equal(t, 2, lg.Count(0))
	assert.Equal(t, []string{"b", "d"}, displayedIDs(b))
	assert.Equal(t, []int{3, 2}, l.Counts())

	c, err := b.Adapter().Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "bravo", c.Text)
	assert.Equal(t, "b", c.GetReference())
}

func TestBrowserFilter(t *testing.T) {
	b, lg, _ := newTestBrowser(t, &fakeAccessor{rows: testRows()})
	defer b.Stop()
	require.NoError(t, b.Start(context.Background()))

	b.SetFilter("CHAR")
	assert.Equal(t, "CHAR", b.Filter())
	assert.Eventually(t, func() bool {
		return lg.Count(0) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"c"}, displayedIDs(b))

	b.SetFilter("")
	assert.Eventually(t, func() bool {
		return lg.Count(0) == 3
	}, time.Second, 10*time.Millisecond)
}

func TestBrowserSort(t *testing.T) {
	b, _, _ := newTestBrowser(t, &fakeAccessor{rows: testRows()})
	defer b.Stop()
	require.NoError(t, b.Start(context.Background()))

	col, asc := b.SortColumn()
	assert.Equal(t, "NAME", col)
	assert.True(t, asc)

	assert.Equal(t, "VALUE", b.CycleSort())
	assert.Eventually(t, func() bool {
		ids := displayedIDs(b)
		return len(ids) == 3 && ids[0] == "c"
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "NAME", b.CycleSort())
	_, asc = b.SortColumn()
	assert.False(t, asc)
	assert.Eventually(t, func() bool {
		ids := displayedIDs(b)
		return len(ids) == 3 && ids[0] == "c" && ids[2] == "a"
	}, time.Second, 10*time.Millisecond)
}

func TestBrowserDetail(t *testing.T) {
	b, _, _ := newTestBrowser(t, &fakeAccessor{rows: testRows()})
	defer b.Stop()
	require.NoError(t, b.Start(context.Background()))

	assert.Equal(t, "VALUE", b.CycleDetail())
	c, err := b.Adapter().Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "alpha 1", c.Text)

	assert.Equal(t, "", b.CycleDetail())
}

func TestBrowserFailed(t *testing.T) {
	boom := errors.New("boom")
	b, _, l := newTestBrowser(t, &fakeAccessor{err: boom})
	defer b.Stop()

	assert.ErrorIs(t, b.Start(context.Background()), boom)
	assert.Len(t, l.Errors(), 1)
}

func TestRowFilter(t *testing.T) {
	f := rowFilter("Pha")

	assert.True(t, f(model1.Row{ID: "x", Fields: model1.Fields{"alpha"}}))
	assert.True(t, f(model1.Row{ID: "phase"}))
	assert.False(t, f(model1.Row{ID: "b", Fields: model1.Fields{"bravo"}}))
}

// Helpers...

func newTestBrowser(t *testing.T, acc *fakeAccessor) (*Browser, *ui.LogGrid, *fakeListener) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.NewGridbuf()
	cfg.Synchronous = true
	lg := ui.NewLogGrid(log)

	b, err := NewBrowser(acc, lg, cfg, nil, log)
	require.NoError(t, err)
	var l fakeListener
	b.SetListener(&l)

	return b, lg, &l
}

func testRows() model1.Rows {
	return model1.Rows{
		{ID: "c", Fields: model1.Fields{"charlie", "0"}},
		{ID: "a", Fields: model1.Fields{"alpha", "1"}},
		{ID: "b", Fields: model1.Fields{"bravo", "2"}},
	}
}

func displayedIDs(b *Browser) []string {
	rows := b.Adapter().Buffer().Elements()
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

type fakeAccessor struct {
	rows model1.Rows
	err  error
	mx   sync.Mutex
}

func (f *fakeAccessor) set(rows model1.Rows) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.rows = rows
}

func (*fakeAccessor) Header() model1.Header {
	return model1.NewHeader("NAME", "VALUE")
}

func (f *fakeAccessor) List(context.Context) (model1.Rows, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows.Clone(), nil
}

type fakeListener struct {
	counts []int
	errs   []error
	mx     sync.Mutex
}

func (f *fakeListener) BrowserLoaded(n int, _ *model1.RowEvents) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.counts = append(f.counts, n)
}

func (f *fakeListener) BrowserFailed(err error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.errs = append(f.errs, err)
}

func (f *fakeListener) Counts() []int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return append([]int(nil), f.counts...)
}

func (f *fakeListener) Errors() []error {
	f.mx.Lock()
	defer f.mx.Unlock()
	return append([]error(nil), f.errs...)
}
