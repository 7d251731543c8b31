// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	menuFmt = " [yellow::b]%s[white::-]%s %s "

	// DefaultMenuRows is the menu height in hint rows.
	DefaultMenuRows = 2
)

// Menu lists the visible key bindings of a component, column by column.
type Menu struct {
	*tview.Table

	rows int
}

// NewMenu returns a menu laying out hints over rows lines.
func NewMenu(rows int) *Menu {
	if rows <= 0 {
		rows = DefaultMenuRows
	}
	m := Menu{
		Table: tview.NewTable(),
		rows:  rows,
	}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return &m
}

// Hydrate shows the visible hints of h. Keys are padded to the widest key
// of their column.
func (m *Menu) Hydrate(h Hinter) {
	m.Clear()

	hh := visibleHints(h.Hints())
	sort.Sort(hh)
	widths := m.keyWidths(hh)
	for i, hint := range hh {
		row, col := i%m.rows, i/m.rows
		c := tview.NewTableCell(formatHint(hint, widths[col]))
		c.SetBackgroundColor(tcell.ColorDefault)
		m.SetCell(row, col, c)
	}
}

func (m *Menu) keyWidths(hh MenuHints) []int {
	ww := make([]int, (len(hh)+m.rows-1)/m.rows)
	for i, h := range hh {
		ww[i/m.rows] = max(ww[i/m.rows], len(h.Mnemonic))
	}
	return ww
}

func visibleHints(hh MenuHints) MenuHints {
	out := make(MenuHints, 0, len(hh))
	for _, h := range hh {
		if h.Visible && h.Mnemonic != "" && h.Description != "" {
			out = append(out, h)
		}
	}
	return out
}

func formatHint(h MenuHint, width int) string {
	return fmt.Sprintf(menuFmt, "<"+h.Mnemonic+">", strings.Repeat(" ", width-len(h.Mnemonic)), h.Description)
}
