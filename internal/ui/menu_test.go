// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type hints MenuHints

func (h hints) Hints() MenuHints { return MenuHints(h) }

func TestMenuHydrate(t *testing.T) {
	m := NewMenu(2)
	m.Hydrate(hints{
		{Mnemonic: "s", Description: "Sort", Visible: true},
		{Mnemonic: "r", Description: "Refresh", Visible: true},
		{Mnemonic: "Esc", Description: "Clear Filter"},
		{Mnemonic: "/", Description: "Filter", Visible: true},
	})

	assert.Equal(t, 2, m.GetRowCount())
	assert.Equal(t, 2, m.GetColumnCount())
	assert.Equal(t, " [yellow::b]</>[white::-] Filter ", m.GetCell(0, 0).Text)
	assert.Equal(t, " [yellow::b]<r>[white::-] Refresh ", m.GetCell(1, 0).Text)
	assert.Equal(t, " [yellow::b]<s>[white::-] Sort ", m.GetCell(0, 1).Text)
}

func TestMenuHydrateKeyWidth(t *testing.T) {
	m := NewMenu(0)
	m.Hydrate(hints{
		{Mnemonic: "Enter", Description: "Describe", Visible: true},
		{Mnemonic: "r", Description: "Refresh", Visible: true},
	})

	assert.Equal(t, " [yellow::b]<Enter>[white::-] Describe ", m.GetCell(0, 0).Text)
	assert.Equal(t, " [yellow::b]<r>[white::-]     Refresh ", m.GetCell(1, 0).Text)
}

func TestMenuHydrateEmpty(t *testing.T) {
	m := NewMenu(2)
	m.Hydrate(hints{{Mnemonic: "Esc", Description: "Clear Filter"}})

	assert.Equal(t, 0, m.GetRowCount())
}

func TestMenuHydrateGrid(t *testing.T) {
	g := NewGrid(1)
	g.Init()
	g.Actions().Add(KeyS, NewKeyAction("Sort", nil, true))

	m := NewMenu(2)
	m.Hydrate(g)
	assert.Equal(t, " [yellow::b]<s>[white::-] Sort ", m.GetCell(0, 0).Text)
}
