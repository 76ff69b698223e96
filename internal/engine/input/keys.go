package input

// Key symbols shared by the keyboard and the on-screen buttons.
// Movement and action keys are single lowercase characters.
const (
	KeyForward  = "w"
	KeyBack     = "s"
	KeyLeft     = "a"
	KeyRight    = "d"
	KeyJump     = " "
	KeySpecial  = "x"
	KeyPrevious = "<"
	KeyNext     = ">"
)

// Named keys that have no single-character symbol.
const (
	KeyArrowLeft  = "arrowleft"
	KeyArrowRight = "arrowright"
	KeyArrowUp    = "arrowup"
	KeyArrowDown  = "arrowdown"
	KeyEscape     = "escape"
	KeyScreenshot = "f12"
)

// Directions lists the movement keys.
var Directions = []string{KeyForward, KeyBack, KeyLeft, KeyRight}
