package assets

import (
	"context"
	"fmt"

	"github.com/Faultbox/charview/internal/engine/animation"
)

// Model is a decoded character asset.
type Model struct {
	Path  string
	Clips []animation.Clip
}

// Clip finds a clip by name.
func (m *Model) Clip(name string) (animation.Clip, bool) {
	for _, c := range m.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return animation.Clip{}, false
}

// Loader decodes models read through a Manager.
type Loader struct {
	manager *Manager
}

// NewLoader creates a loader over m.
func NewLoader(m *Manager) *Loader {
	return &Loader{manager: m}
}

// LoadModel reads and decodes the model at path. It may run off the frame
// goroutine.
func (l *Loader) LoadModel(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := l.manager.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	clips, err := ParseClips(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Model{Path: path, Clips: clips}, nil
}
