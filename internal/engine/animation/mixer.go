package animation

// Mixer owns the actions of one model and advances them together.
type Mixer struct {
	actions map[string]*Action
	order   []*Action
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{
		actions: make(map[string]*Action),
	}
}

// ClipAction returns the action for clip, creating it on first use.
// Actions are keyed by clip name.
func (m *Mixer) ClipAction(clip Clip) *Action {
	if a, ok := m.actions[clip.Name]; ok {
		return a
	}
	a := newAction(clip)
	m.actions[clip.Name] = a
	m.order = append(m.order, a)
	return a
}

// Action looks up an existing action by clip name.
func (m *Mixer) Action(name string) (*Action, bool) {
	a, ok := m.actions[name]
	return a, ok
}

// Actions returns every action in creation order.
func (m *Mixer) Actions() []*Action {
	return m.order
}

// Update advances every running action by dt seconds, including actions
// that are fading out.
func (m *Mixer) Update(dt float32) {
	for _, a := range m.order {
		a.advance(dt)
	}
}
