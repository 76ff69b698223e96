package scene

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	sessionObject   = "session"
	sessionProperty = "model"
)

// Session is what the viewer remembers between runs.
type Session struct {
	Model string `yaml:"model"`
	Index int    `yaml:"index"`
}

// SessionStore persists the Session through gdata. A store without a gdata
// manager keeps the session in memory only.
type SessionStore struct {
	manager *gdata.Manager
	memory  *Session
}

// OpenSessionStore opens the per-user data directory for appName.
func OpenSessionStore(appName string) (*SessionStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("opening data store %s: %w", appName, err)
	}
	return NewSessionStore(m), nil
}

// NewSessionStore wraps m, which may be nil.
func NewSessionStore(m *gdata.Manager) *SessionStore {
	return &SessionStore{manager: m}
}

// Load returns the saved session. ok is false when nothing was saved yet.
func (s *SessionStore) Load() (sess Session, ok bool, err error) {
	if s.manager == nil {
		if s.memory == nil {
			return Session{}, false, nil
		}
		return *s.memory, true, nil
	}

	if !s.manager.ObjectPropExists(sessionObject, sessionProperty) {
		return Session{}, false, nil
	}

	data, err := s.manager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return Session{}, false, fmt.Errorf("loading session: %w", err)
	}
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("decoding session: %w", err)
	}
	return sess, true, nil
}

// Save stores sess.
func (s *SessionStore) Save(sess Session) error {
	if s.manager == nil {
		s.memory = &sess
		return nil
	}

	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.manager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
