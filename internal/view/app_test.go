// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"io"
	"log/slog"
	"testing"

	"github.com/a1s/gridbuf/internal/config"
	"github.com/a1s/gridbuf/internal/config/data"
	"github.com/a1s/gridbuf/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppInit(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Gridbuf.Source = data.Source{Kind: "yaml", Path: "rows.yaml"}
	a := NewApp(cfg, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, a.Init(&fakeAccessor{rows: testRows()}))

	_, ok := a.grid.Actions().Get(ui.KeyR)
	assert.True(t, ok)

	assert.Equal(t, 2, a.menu.GetRowCount())
	assert.Equal(t, 3, a.menu.GetColumnCount())
	assert.Equal(t, " [yellow::b]<Enter>[white::-] Describe ", a.menu.GetCell(0, 0).Text)
	assert.Equal(t, " [yellow::b]<d>[white::-]     Detail ", a.menu.GetCell(1, 0).Text)
	assert.Equal(t, " [yellow::b]</>[white::-] Filter ", a.menu.GetCell(0, 1).Text)
	assert.Equal(t, " [yellow::b]<s>[white::-] Sort ", a.menu.GetCell(0, 2).Text)
}
