package ui

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a1s/gridbuf/internal/model"
	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterBatches(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]string{"A", "B", "C"}, &v, WithRenderer(textRender[string]))
	require.NoError(t, err)
	assert.Equal(t, []string{"set 0"}, v.Calls())

	a.Update([]string{"B", "C", "D"}, true, nil)
	assert.Equal(t, []string{
		"set 0",
		"batch{",
		"insert [0:2]",
		"delete [0:0]",
		"}",
	}, v.Calls())
	assert.Equal(t, 3, a.CountDisplayed())
	assert.Equal(t, "D", a.DisplayedElement(2))
}

func TestAdapterSortedPaths(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]int{}, &v, WithGroup[int](2))
	require.NoError(t, err)

	a.WillChangeContent()
	a.DidInsertElements([]int{5, 1})
	a.DidInsertElements([]int{3, 1})
	a.DidDeleteElements([]int{4, 0, 4})
	a.DidChangeContent()

	assert.Equal(t, []string{
		"batch{",
		"insert [2:1 2:3 2:5]",
		"delete [2:0 2:4]",
		"}",
	}, v.Calls())
}

func TestAdapterEmptyCycle(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]int{}, &v)
	require.NoError(t, err)

	a.WillChangeContent()
	a.DidChangeContent()
	assert.Equal(t, []string{"batch{", "}"}, v.Calls())
}

func TestAdapterRestartedCycle(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]int{}, &v)
	require.NoError(t, err)

	a.WillChangeContent()
	a.DidInsertElements([]int{0})
	a.WillChangeContent()
	a.DidDeleteElements([]int{1})
	a.DidChangeContent()
	a.DidChangeContent()

	assert.Equal(t, []string{"batch{", "delete [0:1]", "}"}, v.Calls())
}

func TestAdapterLazyCycle(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]int{}, &v)
	require.NoError(t, err)

	a.DidInsertElements([]int{2})
	a.DidChangeContent()
	assert.Equal(t, []string{"batch{", "insert [0:2]", "}"}, v.Calls())
}

func TestAdapterReloads(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]string{"A", "B"}, &v, WithGroup[string](1))
	require.NoError(t, err)

	require.NoError(t, a.Buffer().Set(1, "X"))
	a.DidChangeAllContent()
	assert.Equal(t, []string{"reload [1:1]", "reload-all"}, v.Calls())
}

func TestAdapterThreshold(t *testing.T) {
	var v fakeView
	buf := model.NewBuffer([]int{1}, model.WithDiffThreshold[int](1))
	a, err := NewDiffAdapter(buf, &v)
	require.NoError(t, err)

	a.WillChangeContent()
	a.DidInsertElements([]int{0})
	a.Update([]int{1, 2}, true, nil)
	a.DidChangeContent()

	assert.Equal(t, []string{"reload-all"}, v.Calls())
}

func TestAdapterCell(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]string{"A"}, &v, WithGroup[string](3))
	require.NoError(t, err)

	_, err = a.Cell(3, 0)
	assert.ErrorIs(t, err, ErrNoRenderer)
	assert.ErrorIs(t, a.Bind(nil), ErrNoRenderer)

	require.NoError(t, a.Bind(textRender[string]))
	c, err := a.Cell(3, 0)
	require.NoError(t, err)
	assert.Equal(t, "3:0 A", c.Text)

	_, err = a.Cell(3, 1)
	assert.ErrorIs(t, err, model.ErrOutOfRange)
	_, err = a.Cell(0, 0)
	assert.ErrorIs(t, err, model.ErrOutOfRange)

	assert.Equal(t, 1, a.ItemCount(3))
	assert.Equal(t, 0, a.ItemCount(0))
	assert.Equal(t, 3, a.Group())

	_, err = a.ElementAt(4)
	assert.ErrorIs(t, err, model.ErrOutOfRange)
	assert.Panics(t, func() { a.DisplayedElement(4) })
}

func TestAdapterNew(t *testing.T) {
	_, err := NewDiffAdapter[int](nil, &fakeView{})
	assert.ErrorIs(t, err, ErrNoBuffer)

	_, err = NewDiffAdapter(model.NewBuffer([]int{}), nil)
	assert.ErrorIs(t, err, ErrNoView)
}

func TestAdapterRebind(t *testing.T) {
	var v fakeView
	old := model.NewBuffer([]string{"A"})
	a, err := NewDiffAdapter(old, &v, WithRenderer(textRender[string]))
	require.NoError(t, err)

	a.WillChangeContent()
	a.DidInsertElements([]int{0})

	next := model.NewBuffer([]string{"X", "Y"})
	require.NoError(t, a.Rebind(next))
	assert.Nil(t, old.Delegate())
	assert.Equal(t, 2, a.CountDisplayed())

	a.DidChangeContent()
	assert.Equal(t, []string{"set 0", "reload-all"}, v.Calls())

	assert.ErrorIs(t, a.Rebind(nil), ErrNoBuffer)
}

func TestAdapterUnbind(t *testing.T) {
	var v fakeView
	buf := model.NewBuffer([]string{"A"})
	a, err := NewDiffAdapter(buf, &v, WithRenderer(textRender[string]))
	require.NoError(t, err)

	a.Unbind()
	assert.Nil(t, buf.Delegate())

	a.DidChangeElement(0)
	a.DidChangeAllContent()
	buf.Update([]string{"B"}, true, nil)
	assert.Equal(t, []string{"set 0", "remove 0"}, v.Calls())
	assert.ErrorIs(t, a.Bind(textRender[string]), ErrNoView)
}

func TestAdapterSyncCompletion(t *testing.T) {
	var v fakeView
	a, err := NewDiffAdapterFromElements([]string{"A"}, &v)
	require.NoError(t, err)

	a.Update([]string{"A", "B"}, true, func() { v.record("done") })
	assert.Equal(t, []string{"batch{", "insert [0:1]", "}", "done"}, v.Calls())
}

func TestAdapterAsync(t *testing.T) {
	var v fakeView
	buf := model.NewBuffer([]string{})
	defer buf.Close()
	a, err := NewDiffAdapter(buf, &v)
	require.NoError(t, err)

	done := make(chan struct{})
	a.Update([]string{"A"}, false, nil)
	a.Update([]string{"A", "B"}, false, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	assert.Equal(t, []string{
		"batch{", "insert [0:0]", "}",
		"batch{", "insert [0:1]", "}",
	}, v.Calls())
}

func TestAdapterOnGrid(t *testing.T) {
	g := NewGrid(2)
	render := func(_ GridView, e string, _ IndexPath) *tview.TableCell {
		return tview.NewTableCell(e)
	}
	a, err := NewDiffAdapterFromElements([]string{"A", "B", "C"}, g, WithRenderer(render))
	require.NoError(t, err)
	require.Equal(t, 3, g.ItemCount(0))

	a.Update([]string{"C", "A", "B", "D"}, true, nil)
	require.Equal(t, 4, g.ItemCount(0))
	for i, e := range []string{"C", "A", "B", "D"} {
		assert.Equal(t, e, g.CellAt(IndexPath{Item: i}).Text)
	}

	require.NoError(t, a.Buffer().Set(0, "Z"))
	assert.Equal(t, "Z", g.CellAt(IndexPath{}).Text)
}

// Helpers...

func textRender[T any](_ GridView, e T, p IndexPath) *tview.TableCell {
	return tview.NewTableCell(fmt.Sprintf("%s %v", p, e))
}

type fakeView struct {
	calls []string
	mx    sync.Mutex
}

func (f *fakeView) record(s string) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeView) Calls() []string {
	f.mx.Lock()
	defer f.mx.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeView) SetDataSource(group int, _ DataSource) {
	f.record(fmt.Sprintf("set %d", group))
}

func (f *fakeView) RemoveDataSource(group int) {
	f.record(fmt.Sprintf("remove %d", group))
}

func (f *fakeView) PerformBatchUpdates(updates func(), completion func(bool)) error {
	f.record("batch{")
	if updates != nil {
		updates()
	}
	f.record("}")
	if completion != nil {
		completion(true)
	}
	return nil
}

func (f *fakeView) InsertItems(pp []IndexPath) { f.record("insert " + joinPaths(pp)) }
func (f *fakeView) DeleteItems(pp []IndexPath) { f.record("delete " + joinPaths(pp)) }
func (f *fakeView) ReloadItems(pp []IndexPath) { f.record("reload " + joinPaths(pp)) }
func (f *fakeView) ReloadData()                { f.record("reload-all") }

func joinPaths(pp []IndexPath) string {
	ss := make([]string, 0, len(pp))
	for _, p := range pp {
		ss = append(ss, p.String())
	}
	return "[" + strings.Join(ss, " ") + "]"
}
