package dao

import (
	"testing"
	"time"

	"github.com/a1s/gridbuf/internal/model1"
	"github.com/stretchr/testify/assert"
)

func TestRowCache(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewRowCache(time.Minute)
	c.now = func() time.Time { return now }

	rows := model1.Rows{{ID: "a", Fields: model1.Fields{"a"}}}
	c.Set("k", rows)
	rows[0].Fields[0] = "mutated"

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "a", got[0].Fields[0])

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.Set("k", rows)
	c.Invalidate("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}
