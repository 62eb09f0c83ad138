package render

import (
	"fmt"

	"github.com/taigrr/softras/pkg/math3d"
)

// TextureRef is a stable index into a texture arena. NoTexture marks an
// unbound slot.
type TextureRef int

// NoTexture is the ref of an unbound texture slot.
const NoTexture TextureRef = -1

// TextureSource resolves texture refs. A nil result means the slot is
// empty, which shading treats as unbound.
type TextureSource interface {
	Texture(ref TextureRef) *Texture
}

// MaterialKind tags the Material variant.
type MaterialKind int

const (
	// MaterialSolidColor passes the albedo sample (or vertex color) through.
	MaterialSolidColor MaterialKind = iota
	// MaterialLambert scales the albedo sample by the Lambert diffuse BRDF.
	MaterialLambert
	// MaterialLambertSpecular adds a Phong specular lobe to MaterialLambert.
	MaterialLambertSpecular
)

// String returns the kind name.
func (k MaterialKind) String() string {
	switch k {
	case MaterialSolidColor:
		return "solid"
	case MaterialLambert:
		return "lambert"
	case MaterialLambertSpecular:
		return "lambert-specular"
	default:
		return fmt.Sprintf("MaterialKind(%d)", int(k))
	}
}

// Material is a tagged variant over the supported surface models. Every
// variant may carry a normal map; only LambertSpecular reads the specular
// and gloss maps.
type Material struct {
	Name string
	Kind MaterialKind

	Albedo   TextureRef
	Normal   TextureRef
	Specular TextureRef
	Gloss    TextureRef

	// Kd is the diffuse reflectance used by the Lambert variants.
	Kd float64
	// Shininess scales the gloss sample into a Phong exponent, or is the
	// exponent itself when no gloss map is bound.
	Shininess float64
}

// NewSolidColorMaterial creates a pass-through material.
func NewSolidColorMaterial(albedo, normal TextureRef) Material {
	return Material{
		Name:     "solid",
		Kind:     MaterialSolidColor,
		Albedo:   albedo,
		Normal:   normal,
		Specular: NoTexture,
		Gloss:    NoTexture,
	}
}

// NewLambertMaterial creates a diffuse material.
func NewLambertMaterial(albedo, normal TextureRef, kd float64) Material {
	return Material{
		Name:     "lambert",
		Kind:     MaterialLambert,
		Albedo:   albedo,
		Normal:   normal,
		Specular: NoTexture,
		Gloss:    NoTexture,
		Kd:       kd,
	}
}

// NewLambertSpecularMaterial creates a diffuse material with a Phong lobe.
func NewLambertSpecularMaterial(albedo, normal, specular, gloss TextureRef, kd, shininess float64) Material {
	return Material{
		Name:      "lambert-specular",
		Kind:      MaterialLambertSpecular,
		Albedo:    albedo,
		Normal:    normal,
		Specular:  specular,
		Gloss:     gloss,
		Kd:        kd,
		Shininess: shininess,
	}
}

// Surface is an interpolated fragment as seen by a material.
type Surface struct {
	Color   math3d.Vec3
	UV      math3d.Vec2
	Normal  math3d.Vec3
	Tangent math3d.Vec3
	ViewDir math3d.Vec3
}

func sampleRef(src TextureSource, ref TextureRef, uv math3d.Vec2) Sample {
	if ref < 0 || src == nil {
		return Sample{}
	}
	return src.Texture(ref).Sample(uv)
}

// AlbedoColor returns the surface base color. Without an albedo texture
// every variant returns the interpolated vertex color unchanged.
func (m *Material) AlbedoColor(src TextureSource, s Surface) math3d.Vec3 {
	sample := sampleRef(src, m.Albedo, s.UV)
	if !sample.OK {
		return s.Color
	}

	switch m.Kind {
	case MaterialLambert, MaterialLambertSpecular:
		return Lambert(m.Kd, sample.Color)
	default:
		return sample.Color
	}
}

// SurfaceNormal returns the shading normal. With a normal map bound it
// transforms the remapped sample by the (T, N×T, N) basis; otherwise the
// interpolated normal is returned.
func (m *Material) SurfaceNormal(src TextureSource, s Surface) math3d.Vec3 {
	sample := sampleRef(src, m.Normal, s.UV)
	if !sample.OK {
		return s.Normal
	}

	n := sample.Color.Scale(2).Sub(math3d.V3(1, 1, 1))
	bitangent := s.Normal.Cross(s.Tangent)

	return s.Tangent.Scale(n.X).
		Add(bitangent.Scale(n.Y)).
		Add(s.Normal.Scale(n.Z)).
		Normalize()
}

// SpecularColor returns the Phong term plus ambient for LambertSpecular.
// Other variants have no specular lobe and return black.
func (m *Material) SpecularColor(src TextureSource, s Surface, normal, lightDir, ambient math3d.Vec3) math3d.Vec3 {
	if m.Kind != MaterialLambertSpecular {
		return math3d.Zero3()
	}

	ks := sampleRef(src, m.Specular, s.UV).Or(math3d.V3(1, 1, 1))

	// Exponent 0 would light every texel full white
	exponent := m.Shininess
	if gloss := sampleRef(src, m.Gloss, s.UV); gloss.OK {
		exponent = max(1, gloss.Color.X*m.Shininess)
	}

	return ks.Scale(Phong(lightDir, normal, s.ViewDir, exponent)).Add(ambient)
}
