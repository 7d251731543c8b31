// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"sync"

	"github.com/derailed/tcell/v2"
)

// Rune keys bound by grid views.
const (
	KeySlash  tcell.Key = '/'
	KeyQ      tcell.Key = 'q'
	KeyD      tcell.Key = 'd'
	KeyR      tcell.Key = 'r'
	KeyS      tcell.Key = 's'
	KeyH      tcell.Key = 'h'
	KeyJ      tcell.Key = 'j'
	KeyK      tcell.Key = 'k'
	KeyL      tcell.Key = 'l'
	KeyG      tcell.Key = 'g'
	KeyShiftG tcell.Key = 'G'
)

// ActionHandler handles a keyboard event.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// KeyAction represents a keyboard action.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Visible     bool
}

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, visible bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: visible}
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// KeyActions tracks the actions bound to a view.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty action set.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// Add binds an action.
func (a *KeyActions) Add(k tcell.Key, ka KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.actions[k] = ka
}

// Bulk binds several actions at once.
func (a *KeyActions) Bulk(km KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for k, ka := range km {
		a.actions[k] = ka
	}
}

// Get returns the action bound to k.
func (a *KeyActions) Get(k tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()

	ka, ok := a.actions[k]
	return ka, ok
}

// Delete unbinds keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Hints returns menu hints for the bound actions.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	hh := make(MenuHints, 0, len(a.actions))
	for k, ka := range a.actions {
		name, ok := tcell.KeyNames[k]
		if !ok {
			name = string(rune(k))
		}
		hh = append(hh, MenuHint{
			Mnemonic:    name,
			Description: ka.Description,
			Visible:     ka.Visible,
		})
	}
	return hh
}

// AsKey converts rune keys to their key form.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}
