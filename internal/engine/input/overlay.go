package input

// Button is one on-screen control, in window coordinates.
type Button struct {
	Key   string
	Label string
	X, Y  float32
	W, H  float32
}

// Contains reports whether the point lies inside the button.
func (b Button) Contains(x, y float32) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Overlay is the on-screen control pad. Pressing a button writes the same
// key symbol into State that the physical key would.
type Overlay struct {
	state   *State
	buttons []Button
	held    string

	// Fired on press, after the key-down has been written.
	OnPrevious func()
	OnNext     func()
	OnExtra    func()
}

const (
	buttonSize      = 40
	jumpButtonWidth = 160
	bottomMargin    = 120
)

// NewOverlay lays out the buttons for a window of the given size.
func NewOverlay(state *State, width, height int) *Overlay {
	o := &Overlay{state: state}
	o.Resize(width, height)
	return o
}

// Resize re-lays the buttons for a new window size.
func (o *Overlay) Resize(width, height int) {
	centerX := float32(width) / 2
	centerY := float32(height) / 2
	bottom := float32(height) - bottomMargin

	o.buttons = []Button{
		{Key: KeyForward, Label: KeyForward, X: centerX - 10, Y: bottom - 80},
		{Key: KeyLeft, Label: KeyLeft, X: centerX - 80, Y: bottom - 20},
		{Key: KeyBack, Label: KeyBack, X: centerX - 10, Y: bottom - 20},
		{Key: KeyRight, Label: KeyRight, X: centerX + 60, Y: bottom - 20},
		{Key: KeyJump, Label: "jump", X: centerX - 80, Y: bottom + 40, W: jumpButtonWidth},
		{Key: KeyPrevious, Label: KeyPrevious, X: 0.8 * centerX, Y: centerY},
		{Key: KeyNext, Label: KeyNext, X: 1.2 * centerX, Y: centerY},
		{Key: KeySpecial, Label: KeySpecial, X: 20, Y: bottom + 40},
	}
	for i := range o.buttons {
		if o.buttons[i].W == 0 {
			o.buttons[i].W = buttonSize
		}
		o.buttons[i].H = buttonSize
	}
}

// Buttons returns the current layout.
func (o *Overlay) Buttons() []Button {
	return o.buttons
}

// Held returns the key of the button currently pressed, or "".
func (o *Overlay) Held() string {
	return o.held
}

// Press handles a mouse-down at (x, y). It returns the key of the hit
// button and false when the point misses every button.
func (o *Overlay) Press(x, y float32) (string, bool) {
	for _, b := range o.buttons {
		if !b.Contains(x, y) {
			continue
		}
		o.held = b.Key
		o.state.SetPressed(b.Key, true)
		o.fire(b.Key)
		return b.Key, true
	}
	return "", false
}

// Release handles a mouse-up: the held button, if any, is released.
func (o *Overlay) Release() {
	if o.held == "" {
		return
	}
	o.state.SetPressed(o.held, false)
	o.held = ""
}

func (o *Overlay) fire(key string) {
	var cb func()
	switch key {
	case KeyPrevious:
		cb = o.OnPrevious
	case KeyNext:
		cb = o.OnNext
	case KeySpecial:
		cb = o.OnExtra
	}
	if cb != nil {
		cb()
	}
}
