package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// Lambert returns the diffuse BRDF cd·kd/π.
func Lambert(kd float64, cd math3d.Vec3) math3d.Vec3 {
	return cd.Scale(kd / math.Pi)
}

// ObservedArea returns max(0, -L·N). lightDir points from the light
// toward the surface.
func ObservedArea(lightDir, normal math3d.Vec3) float64 {
	return math.Max(0, -lightDir.Dot(normal))
}

// Phong returns pow(max(0, reflect(L, N)·(-V)), exponent). viewDir points
// from the eye toward the surface.
func Phong(lightDir, normal, viewDir math3d.Vec3, exponent float64) float64 {
	r := lightDir.Reflect(normal)
	cosAlpha := math.Max(0, r.Dot(viewDir.Negate()))
	if cosAlpha == 0 {
		return 0
	}
	return math.Pow(cosAlpha, exponent)
}
