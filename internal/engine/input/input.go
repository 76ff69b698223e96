// Package input turns SDL2 events into key-symbol events and keeps the
// pressed-key table that keyboard and on-screen buttons share.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Mouse buttons carried on mouse events.
const (
	ButtonLeft  = sdl.BUTTON_LEFT
	ButtonRight = sdl.BUTTON_RIGHT
)

// Event represents a processed input event.
type Event struct {
	Type EventType

	// Key events
	Key    string // key symbol, empty when the key has no mapping
	Ctrl   bool
	Repeat bool

	// Window events
	Width  int
	Height int

	// Mouse events
	MouseX, MouseY int
	DeltaX, DeltaY int
	Wheel          float32
	Button         uint8
}

// Pump polls SDL events once per frame.
type Pump struct {
	events []Event
}

// NewPump creates a new event pump.
func NewPump() *Pump {
	return &Pump{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them.
// Returns true if the window was asked to close.
func (p *Pump) Update() bool {
	p.events = p.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			p.events = append(p.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				p.events = append(p.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := Event{
				Key:    KeySymbol(e.Keysym.Sym),
				Ctrl:   sdl.GetModState()&sdl.KMOD_CTRL != 0,
				Repeat: e.Repeat != 0,
			}
			if e.Type == sdl.KEYDOWN {
				ev.Type = EventKeyDown
			} else {
				ev.Type = EventKeyUp
			}
			p.events = append(p.events, ev)

		case *sdl.MouseMotionEvent:
			p.events = append(p.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
			} else {
				ev.Type = EventMouseUp
			}
			p.events = append(p.events, ev)

		case *sdl.MouseWheelEvent:
			p.events = append(p.events, Event{
				Type:  EventMouseWheel,
				Wheel: float32(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (p *Pump) Events() []Event {
	return p.events
}

// KeySymbol maps an SDL keycode to the symbol space used by State.
func KeySymbol(sym sdl.Keycode) string {
	switch sym {
	case sdl.K_LEFT:
		return KeyArrowLeft
	case sdl.K_RIGHT:
		return KeyArrowRight
	case sdl.K_UP:
		return KeyArrowUp
	case sdl.K_DOWN:
		return KeyArrowDown
	case sdl.K_ESCAPE:
		return KeyEscape
	case sdl.K_F12:
		return KeyScreenshot
	}
	// Printable keycodes are their ASCII character.
	if sym >= sdl.K_SPACE && sym <= sdl.K_z {
		return normalize(string(rune(sym)))
	}
	return ""
}
