package model1_test

import (
	"testing"

	"github.com/a1s/gridbuf/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack(t *testing.T) {
	h := model1.NewHeader("NAME", "SIZE", "AGE")
	prev := model1.Rows{
		{ID: "a", Fields: model1.Fields{"a", "1", "1m"}},
		{ID: "b", Fields: model1.Fields{"b", "2", "1m"}},
		{ID: "c", Fields: model1.Fields{"c", "3", "1m"}},
	}
	next := model1.Rows{
		{ID: "a", Fields: model1.Fields{"a", "1", "2m"}},
		{ID: "b", Fields: model1.Fields{"b", "20", "2m"}},
		{ID: "d", Fields: model1.Fields{"d", "4", "1s"}},
	}

	ev := model1.Track(prev, next, h)
	require.Equal(t, 4, ev.Len())
	assert.Equal(t, model1.EventUnchanged, ev.Kind("a"))
	assert.Equal(t, model1.EventUpdate, ev.Kind("b"))
	assert.Equal(t, model1.EventAdd, ev.Kind("d"))
	assert.Equal(t, model1.EventDelete, ev.Kind("c"))
	assert.Equal(t, model1.EventUnchanged, ev.Kind("zorg"))

	re, ok := ev.Get("b")
	require.True(t, ok)
	assert.Equal(t, []int{1}, re.Deltas.Changed())
	assert.Equal(t, "2", re.Deltas[1])

	last, ok := ev.At(3)
	require.True(t, ok)
	assert.Equal(t, "c", last.Row.ID)

	assert.Equal(t, 2, ev.Count(model1.EventAdd|model1.EventDelete))
}

func TestRowEventsMutations(t *testing.T) {
	ev := model1.NewRowEvents(2)
	ev.Add(model1.NewRowEvent(model1.EventAdd, model1.Row{ID: "a"}))
	ev.Add(model1.NewRowEvent(model1.EventAdd, model1.Row{ID: "b"}))

	ev.Upsert(model1.NewRowEvent(model1.EventUpdate, model1.Row{ID: "a"}))
	assert.Equal(t, 2, ev.Len())
	assert.Equal(t, model1.EventUpdate, ev.Kind("a"))

	require.NoError(t, ev.Delete("a"))
	assert.Error(t, ev.Delete("a"))
	assert.Equal(t, model1.EventAdd, ev.Kind("b"))

	c := ev.Clone()
	require.NoError(t, ev.Delete("b"))
	assert.True(t, ev.Empty())
	assert.Equal(t, 1, c.Len())
}

func TestRowEventsNil(t *testing.T) {
	var ev *model1.RowEvents

	_, ok := ev.Get("a")
	assert.False(t, ok)
	assert.Equal(t, model1.EventUnchanged, ev.Kind("a"))
	assert.Equal(t, 0, ev.Count(model1.EventAdd))
}
