package render

import (
	"fmt"

	"github.com/taigrr/softras/pkg/math3d"
)

// ShadingMode selects which lighting terms reach the color buffer.
type ShadingMode int

const (
	// ShadeCombined is (albedo + specular) · observed area.
	ShadeCombined ShadingMode = iota
	// ShadeObservedArea shows the cosine term alone in grey.
	ShadeObservedArea
	// ShadeDiffuse is albedo · observed area.
	ShadeDiffuse
	// ShadeSpecular is specular · observed area.
	ShadeSpecular
)

var shadingNames = [...]string{"combined", "observed-area", "diffuse", "specular"}

// String returns the mode name.
func (m ShadingMode) String() string {
	if m < 0 || int(m) >= len(shadingNames) {
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
	return shadingNames[m]
}

// ParseShadingMode maps a mode name back to its value.
func ParseShadingMode(s string) (ShadingMode, bool) {
	for i, name := range shadingNames {
		if name == s {
			return ShadingMode(i), true
		}
	}
	return ShadeCombined, false
}

// Next cycles observed-area → diffuse → specular → combined.
func (m ShadingMode) Next() ShadingMode {
	switch m {
	case ShadeObservedArea:
		return ShadeDiffuse
	case ShadeDiffuse:
		return ShadeSpecular
	case ShadeSpecular:
		return ShadeCombined
	default:
		return ShadeObservedArea
	}
}

// Lighting is the single directional light of a frame.
type Lighting struct {
	// Direction points from the light toward the scene.
	Direction math3d.Vec3
	// Ambient is added to the specular term of LambertSpecular materials.
	Ambient math3d.Vec3
	// NormalMapping enables normal map lookups.
	NormalMapping bool
}

// DefaultLighting returns the light used by the built-in scenes.
func DefaultLighting() Lighting {
	return Lighting{
		Direction:     math3d.V3(0.577, -0.577, 0.577).Normalize(),
		Ambient:       math3d.V3(0.025, 0.025, 0.025),
		NormalMapping: true,
	}
}

// Shade evaluates material m for one fragment. The result is clamped to
// [0, 1] per channel.
func Shade(m *Material, src TextureSource, s Surface, mode ShadingMode, light Lighting) math3d.Vec3 {
	normal := s.Normal
	if light.NormalMapping {
		normal = m.SurfaceNormal(src, s)
	}

	observed := ObservedArea(light.Direction, normal)

	var c math3d.Vec3
	switch mode {
	case ShadeObservedArea:
		c = math3d.V3(observed, observed, observed)
	case ShadeDiffuse:
		c = m.AlbedoColor(src, s).Scale(observed)
	case ShadeSpecular:
		c = m.SpecularColor(src, s, normal, light.Direction, light.Ambient).Scale(observed)
	default:
		albedo := m.AlbedoColor(src, s)
		specular := m.SpecularColor(src, s, normal, light.Direction, light.Ambient)
		c = albedo.Add(specular).Scale(observed)
	}
	return c.Clamp01()
}
