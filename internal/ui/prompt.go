package ui

import (
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// FilterIcon prefixes the prompt while filtering.
const FilterIcon = "🔍"

// Prompt captures filter input on a single line.
type Prompt struct {
	*tview.TextView

	active   bool
	text     string
	changeFn func(string)
	doneFn   func(string, bool)
	mx       sync.RWMutex
}

// NewPrompt returns a new prompt.
func NewPrompt() *Prompt {
	p := &Prompt{
		TextView: tview.NewTextView(),
	}
	p.SetDynamicColors(true)
	p.SetBackgroundColor(tcell.ColorDefault)
	p.SetTextColor(tcell.ColorWhite)
	p.refresh()

	return p
}

// SetChangeFn sets the callback invoked as the text changes.
func (p *Prompt) SetChangeFn(fn func(string)) {
	p.changeFn = fn
}

// SetDoneFn sets the callback invoked when input ends. The flag is false when
// input was cancelled.
func (p *Prompt) SetDoneFn(fn func(string, bool)) {
	p.doneFn = fn
}

// Activate starts capturing input.
func (p *Prompt) Activate() {
	p.mx.Lock()
	p.active, p.text = true, ""
	p.mx.Unlock()

	p.refresh()
}

// IsActive returns true while input is captured.
func (p *Prompt) IsActive() bool {
	p.mx.RLock()
	defer p.mx.RUnlock()

	return p.active
}

// Text returns the current text.
func (p *Prompt) Text() string {
	p.mx.RLock()
	defer p.mx.RUnlock()

	return p.text
}

// HandleKey processes keyboard input while active.
func (p *Prompt) HandleKey(evt *tcell.EventKey) *tcell.EventKey {
	if !p.IsActive() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyEsc:
		p.finish("", false)
		return nil
	case tcell.KeyEnter:
		p.finish(p.Text(), true)
		return nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		p.mx.Lock()
		if len(p.text) > 0 {
			r := []rune(p.text)
			p.text = string(r[:len(r)-1])
		}
		text := p.text
		p.mx.Unlock()
		p.changed(text)
		return nil
	case tcell.KeyRune:
		p.mx.Lock()
		p.text += string(evt.Rune())
		text := p.text
		p.mx.Unlock()
		p.changed(text)
		return nil
	}

	return evt
}

func (p *Prompt) changed(text string) {
	p.refresh()
	if p.changeFn != nil {
		p.changeFn(text)
	}
}

func (p *Prompt) finish(text string, ok bool) {
	p.mx.Lock()
	p.active = false
	if !ok {
		p.text = ""
	}
	p.mx.Unlock()

	p.refresh()
	if p.doneFn != nil {
		p.doneFn(text, ok)
	}
}

func (p *Prompt) refresh() {
	p.mx.RLock()
	active, text := p.active, p.text
	p.mx.RUnlock()

	switch {
	case active:
		p.TextView.SetText(FilterIcon + "/" + tview.Escape(text) + "[black:white] [-:-]")
	case text != "":
		p.TextView.SetText(FilterIcon + "/" + tview.Escape(text))
	default:
		p.TextView.SetText("")
	}
}
