// Package backend provides the terminal device abstraction for the editor.
package backend

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// Backend errors.
var (
	// ErrNotTerminal indicates stdin is not attached to a terminal.
	ErrNotTerminal = errors.New("stdin is not a terminal")

	// ErrInvalidSize indicates the terminal reported fewer than one column or row.
	ErrInvalidSize = errors.New("invalid terminal size")

	// ErrClosed indicates the input side of the terminal was closed.
	ErrClosed = errors.New("terminal input closed")
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventPaste
	EventFocus
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Focus event fields
	Focused bool
}

// KeyEvent is a convenience constructor for key events.
func KeyEvent(k Key, r rune, mod ModMask) Event {
	return Event{Type: EventKey, Key: k, Rune: r, Mod: mod}
}

// String returns a readable name such as "Ctrl-Q", "Alt+Up" or "Rune[a]".
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		name := e.Key.String()
		mod := e.Mod
		switch {
		case e.Key == KeyRune:
			name = "Rune[" + string(e.Rune) + "]"
		case e.Key >= KeyCtrlA && e.Key <= KeyCtrlZ:
			mod &^= ModCtrl
		}
		if prefix := mod.String(); prefix != "" {
			return prefix + "+" + name
		}
		return name
	case EventPaste:
		return "Paste"
	case EventFocus:
		return "Focus"
	default:
		return "None"
	}
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

// String returns the key name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	switch {
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyCtrlA && k <= KeyCtrlZ:
		return "Ctrl-" + string(rune('A'+(k-KeyCtrlA)))
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// String returns the modifiers joined with '+', or "" for ModNone.
func (m ModMask) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// Backend defines the terminal device the editor draws to and reads from.
// Implementations are driven from a single goroutine.
type Backend interface {
	// Init switches the terminal into raw mode and samples its size.
	// Must be called before any other methods.
	Init() error

	// Shutdown restores the terminal mode saved by Init.
	// Safe to call more than once.
	Shutdown() error

	// Size returns the terminal dimensions sampled at Init.
	Size() (width, height int)

	// Output returns the device the frame buffer flushes to.
	Output() io.Writer

	// PollEvent waits up to timeout for the next event. ok is false when
	// the timeout elapsed without an event.
	PollEvent(timeout time.Duration) (ev Event, ok bool, err error)

	// PostEvent queues a synthetic event ahead of terminal input.
	PostEvent(ev Event)
}
