package render

import (
	"strings"
	"sync"

	"github.com/a1s/gridbuf/internal/model1"
	"github.com/a1s/gridbuf/internal/ui"
	"github.com/derailed/tview"
)

// EventsFunc returns the row events of the latest refresh.
type EventsFunc func() *model1.RowEvents

// Row renders grid rows as single cells. The cell shows a title column
// followed by an optional detail column and is colored after the last event
// seen for the row.
type Row struct {
	header  model1.Header
	title   int
	detail  int
	width   int
	colorer model1.ColorerFunc
	events  EventsFunc
	mx      sync.RWMutex
}

// NewRow returns a renderer for rows described by h. The title column is the
// first NAME column, or the first column when there is none.
func NewRow(h model1.Header, events EventsFunc) *Row {
	r := Row{
		header:  h,
		detail:  -1,
		width:   DefaultWidth,
		colorer: model1.DefaultColorer,
		events:  events,
	}
	if idx, ok := h.IndexOf("NAME"); ok {
		r.title = idx
	}

	return &r
}

// SetDetail shows column name next to the title. An unknown name clears it.
func (r *Row) SetDetail(name string) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.detail = -1
	if idx, ok := r.header.IndexOf(name); ok && idx != r.title {
		r.detail = idx
	}
}

// Detail returns the detail column name.
func (r *Row) Detail() string {
	r.mx.RLock()
	defer r.mx.RUnlock()

	if r.detail < 0 {
		return ""
	}
	return r.header[r.detail].Name
}

// SetWidth changes the maximum cell text width.
func (r *Row) SetWidth(n int) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.width = n
}

// SetColorer overrides the row colorer.
func (r *Row) SetColorer(f model1.ColorerFunc) {
	r.mx.Lock()
	defer r.mx.Unlock()

	if f != nil {
		r.colorer = f
	}
}

// Text returns the cell text of a row.
func (r *Row) Text(row model1.Row) string {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return r.text(row)
}

func (r *Row) text(row model1.Row) string {
	var b strings.Builder
	b.WriteString(Missing(row.Field(r.title)))
	if r.detail >= 0 {
		b.WriteString(" ")
		b.WriteString(FormatField(r.header, r.detail, row.Field(r.detail)))
	}

	return Truncate(b.String(), r.width)
}

// Render renders the row displayed at path.
func (r *Row) Render(_ ui.GridView, row model1.Row, path ui.IndexPath) *tview.TableCell {
	r.mx.RLock()
	defer r.mx.RUnlock()

	re := model1.NewRowEvent(model1.EventUnchanged, row)
	if r.events != nil {
		if evt, ok := r.events().Get(row.ID); ok {
			re.Kind, re.Deltas = evt.Kind, evt.Deltas
		}
	}

	c := tview.NewTableCell(r.text(row))
	c.SetTextColor(AsCellColor(r.colorer(r.header, &re)))
	if r.title < len(r.header) {
		c.SetAlign(r.header[r.title].Align)
	}
	c.SetReference(row.ID)

	return c
}
