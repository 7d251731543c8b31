package model_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/a1s/gridbuf/internal/model"
	"github.com/a1s/gridbuf/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRefresh(t *testing.T) {
	a := &fakeAccessor{rows: model1.Rows{
		{ID: "a", Fields: model1.Fields{"a", "1"}},
		{ID: "b", Fields: model1.Fields{"b", "2"}},
	}}
	var u fakeUpdater
	w := model.NewWatcher(a, &u, 0)
	var l fakeListener
	w.AddListener(&l)

	require.NoError(t, w.Refresh(context.Background()))
	assert.Equal(t, 1, u.calls)
	assert.Len(t, u.last, 2)
	assert.Equal(t, 2, l.loaded)
	assert.Equal(t, 2, w.Events().Count(model1.EventAdd))

	a.rows = model1.Rows{
		{ID: "b", Fields: model1.Fields{"b", "3"}},
		{ID: "c", Fields: model1.Fields{"c", "1"}},
	}
	require.NoError(t, w.Refresh(context.Background()))
	ev := w.Events()
	assert.Equal(t, 1, ev.Count(model1.EventAdd))
	assert.Equal(t, 1, ev.Count(model1.EventUpdate))
	assert.Equal(t, 1, ev.Count(model1.EventDelete))
	assert.Equal(t, model1.EventUpdate, ev.Kind("b"))
	assert.Equal(t, 5, l.loaded)
}

func TestWatcherRefreshFailed(t *testing.T) {
	boom := errors.New("boom")
	w := model.NewWatcher(&fakeAccessor{err: boom}, &fakeUpdater{}, 0)
	var l fakeListener
	w.AddListener(&l)

	err := w.Watch(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, l.failed)

	w.RemoveListener(&l)
	assert.Error(t, w.Watch(context.Background()))
	assert.Equal(t, 1, l.failed)
}

func TestWatcherMissingParts(t *testing.T) {
	w := model.NewWatcher(nil, &fakeUpdater{}, 0)
	assert.ErrorIs(t, w.Refresh(context.Background()), model.ErrNoAccessor)
	assert.Nil(t, w.Header())

	w = model.NewWatcher(&fakeAccessor{}, nil, 0)
	assert.ErrorIs(t, w.Refresh(context.Background()), model.ErrNoUpdater)

	w.SetUpdater(&fakeUpdater{})
	assert.NoError(t, w.Refresh(context.Background()))
}

func TestWatcherFeedsBuffer(t *testing.T) {
	a := &fakeAccessor{rows: model1.Rows{
		{ID: "b", Fields: model1.Fields{"b", "2"}},
		{ID: "a", Fields: model1.Fields{"a", "1"}},
	}}
	b := model.NewBufferFunc(nil, model1.Row.Identity, model1.Row.Equal,
		model.WithSort(model1.RowLess(a.Header(), 0, true)),
	)
	w := model.NewWatcher(a, b, 0)
	w.SetSynchronous(true)

	require.NoError(t, w.Watch(context.Background()))
	defer w.Stop()

	require.Equal(t, 2, b.Len())
	assert.Equal(t, "a", b.At(0).ID)
	assert.Equal(t, "b", b.At(1).ID)
}

// Helpers...

type fakeAccessor struct {
	rows model1.Rows
	err  error
}

func (f *fakeAccessor) Header() model1.Header {
	return model1.NewHeader("NAME", "VALUE")
}

func (f *fakeAccessor) List(context.Context) (model1.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows.Clone(), nil
}

type fakeUpdater struct {
	calls int
	last  []model1.Row
}

func (f *fakeUpdater) Update(values []model1.Row, _ bool, completion func()) {
	f.calls++
	f.last = values
	if completion != nil {
		completion()
	}
}

type fakeListener struct {
	loaded, failed int
	mx             sync.Mutex
}

func (f *fakeListener) RowsLoaded(ev *model1.RowEvents) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.loaded += ev.Len()
}

func (f *fakeListener) LoadFailed(error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.failed++
}
