package model1

import "github.com/gdamore/tcell/v2"

// NAValue is displayed for fields a source did not provide.
const NAValue = "n/a"

// ResEvent represents a row event type
type ResEvent int

const (
	EventUnchanged ResEvent = 1 << iota
	EventAdd
	EventUpdate
	EventDelete
)

// String returns the event name.
func (e ResEvent) String() string {
	switch e {
	case EventAdd:
		return "add"
	case EventUpdate:
		return "update"
	case EventDelete:
		return "delete"
	default:
		return "unchanged"
	}
}

// DecoratorFunc decorates a string
type DecoratorFunc func(string) string

// ColorerFunc represents a row colorer
type ColorerFunc func(h Header, re *RowEvent) tcell.Color
