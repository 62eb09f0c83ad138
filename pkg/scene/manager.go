package scene

import (
	"errors"
	"fmt"
)

// ErrNoScenes is returned when a manager would start empty.
var ErrNoScenes = errors.New("no scenes")

// Manager holds the loaded scenes and which one is shown.
type Manager struct {
	scenes  []*Scene
	current int
}

// NewManager creates a manager showing the first scene.
func NewManager(scenes ...*Scene) (*Manager, error) {
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}
	return &Manager{scenes: scenes}, nil
}

// BuildAll builds the named scenes in order. The model scene is skipped
// when opts carries no model path.
func BuildAll(names []string, opts Options) (*Manager, error) {
	var scenes []*Scene
	for _, name := range names {
		if name == SceneModel && opts.ModelPath == "" {
			continue
		}
		s, err := Build(name, opts)
		if err != nil {
			return nil, fmt.Errorf("build scenes: %w", err)
		}
		scenes = append(scenes, s)
	}
	return NewManager(scenes...)
}

// Current returns the scene being shown.
func (m *Manager) Current() *Scene { return m.scenes[m.current] }

// Index returns the position of the current scene.
func (m *Manager) Index() int { return m.current }

// Len returns the number of scenes.
func (m *Manager) Len() int { return len(m.scenes) }

// Next switches to the following scene, wrapping after the last.
func (m *Manager) Next() *Scene {
	m.current = (m.current + 1) % len(m.scenes)
	return m.Current()
}

// Select switches to the scene called name.
func (m *Manager) Select(name string) error {
	for i, s := range m.scenes {
		if s.Name == name {
			m.current = i
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrUnknownScene)
}

// Update advances the current scene by dt seconds.
func (m *Manager) Update(dt float64) {
	m.Current().Update(dt)
}

// SetAspect updates every scene camera, so switching after a resize does
// not show a stretched frame.
func (m *Manager) SetAspect(aspect float64) {
	for _, s := range m.scenes {
		s.camera.SetAspectRatio(aspect)
	}
}
