package render

import "fmt"

// RenderMode selects what the pipeline writes into the color buffer.
type RenderMode int

const (
	// ModeTexture shades every fragment with its material.
	ModeTexture RenderMode = iota
	// ModeDepth writes the depth buffer value as grey, remapped from
	// the [DepthNear, DepthFar] display range.
	ModeDepth
	// ModeWireframe outlines every triangle that survives setup.
	ModeWireframe

	modeCount
)

var modeNames = [...]string{"texture", "depth", "wireframe"}

// String returns the mode name.
func (m RenderMode) String() string {
	if m < 0 || m >= modeCount {
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseRenderMode maps a mode name back to its value.
func ParseRenderMode(s string) (RenderMode, bool) {
	for i, name := range modeNames {
		if name == s {
			return RenderMode(i), true
		}
	}
	return ModeTexture, false
}

// Next returns the following mode, wrapping around.
func (m RenderMode) Next() RenderMode {
	return (m + 1) % modeCount
}
