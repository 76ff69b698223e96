package input

import "strings"

// State maps key symbols to their pressed flag.
// It only holds the current snapshot: last write wins, nothing is debounced.
type State struct {
	pressed map[string]bool
}

// NewState creates an empty input state with every key released.
func NewState() *State {
	return &State{pressed: make(map[string]bool)}
}

// SetPressed records whether key is held.
func (s *State) SetPressed(key string, pressed bool) {
	s.pressed[normalize(key)] = pressed
}

// IsPressed reports whether key is held. Unknown keys are released.
func (s *State) IsPressed(key string) bool {
	return s.pressed[normalize(key)]
}

// AnyPressed reports whether at least one of keys is held.
func (s *State) AnyPressed(keys ...string) bool {
	for _, k := range keys {
		if s.IsPressed(k) {
			return true
		}
	}
	return false
}

// Reset releases every key.
func (s *State) Reset() {
	clear(s.pressed)
}

func normalize(key string) string {
	return strings.ToLower(key)
}
