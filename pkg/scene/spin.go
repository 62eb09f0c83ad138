package scene

import "github.com/charmbracelet/harmonica"

const (
	// DefaultFPS is the frame rate the spin spring is tuned for.
	DefaultFPS = 60
	// DefaultSpinSpeed is the mesh rotation speed in radians per second.
	DefaultSpinSpeed = 1.0
)

// Spin rotates meshes around the Y axis. Toggling does not stop the
// rotation dead; a critically damped spring eases the speed toward its
// new target.
type Spin struct {
	Angle float64 // Accumulated rotation in radians

	speed    float64 // Current angular speed
	velocity float64 // Spring velocity of speed
	target   float64
	maxSpeed float64
	enabled  bool
	spring   harmonica.Spring
}

// NewSpin creates a running spin at maxSpeed radians per second.
func NewSpin(fps int, maxSpeed float64) *Spin {
	return &Spin{
		speed:    maxSpeed,
		target:   maxSpeed,
		maxSpeed: maxSpeed,
		enabled:  true,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Enabled reports whether the spin is heading toward full speed.
func (s *Spin) Enabled() bool { return s.enabled }

// Speed returns the current angular speed.
func (s *Spin) Speed() float64 { return s.speed }

// Toggle flips the target speed between zero and full and returns
// whether the spin is now enabled.
func (s *Spin) Toggle() bool {
	s.enabled = !s.enabled
	if s.enabled {
		s.target = s.maxSpeed
	} else {
		s.target = 0
	}
	return s.enabled
}

// Update steps the spring once and advances the angle by dt seconds.
func (s *Spin) Update(dt float64) {
	s.speed, s.velocity = s.spring.Update(s.speed, s.velocity, s.target)
	s.Angle += s.speed * dt
}

// Stop halts the spin immediately, without easing.
func (s *Spin) Stop() {
	s.enabled = false
	s.target = 0
	s.speed = 0
	s.velocity = 0
}

// Reset puts the meshes back at their rest orientation.
func (s *Spin) Reset() {
	s.Angle = 0
}
