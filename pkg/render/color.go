package render

import (
	"image/color"
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGray  = color.RGBA{99, 99, 99, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// ToColor converts a linear [0, 1] triple to an opaque 8-bit color.
// Channels outside the range are clamped.
func ToColor(c math3d.Vec3) Color {
	c = c.Clamp01()
	return Color{
		R: uint8(math.Round(c.X * 255)),
		G: uint8(math.Round(c.Y * 255)),
		B: uint8(math.Round(c.Z * 255)),
		A: 255,
	}
}

// FromColor converts an 8-bit color to a [0, 1] triple, dropping alpha.
func FromColor(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}
