package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// bboxMargin widens every triangle's pixel box.
const bboxMargin = 2

// bbox is a pixel rectangle, end-exclusive on both axes.
type bbox struct {
	minX, minY int
	maxX, maxY int
}

func (b bbox) empty() bool {
	return b.minX >= b.maxX || b.minY >= b.maxY
}

// toScreen maps a clip-space vertex in place: X and Y to pixels, Z to NDC
// depth. W is kept.
func toScreen(v *TransformedVertex, width, height float64) {
	p := v.Position
	ndc := p.PerspectiveDivide()
	v.Position = math3d.V4(
		(ndc.X+1)*0.5*width,
		(1-ndc.Y)*0.5*height,
		ndc.Z,
		p.W,
	)
}

// signedArea returns half the 2D cross product of the triangle's edges
// from a. Positive means front-facing on screen.
func signedArea(a, b, c math3d.Vec2) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a))
}

// boundingBox returns the triangle's pixel box, widened by bboxMargin and
// clamped to [0, width] × [0, height].
func boundingBox(tri *[3]TransformedVertex, width, height int) bbox {
	minX := math.Min(tri[0].Position.X, math.Min(tri[1].Position.X, tri[2].Position.X))
	minY := math.Min(tri[0].Position.Y, math.Min(tri[1].Position.Y, tri[2].Position.Y))
	maxX := math.Max(tri[0].Position.X, math.Max(tri[1].Position.X, tri[2].Position.X))
	maxY := math.Max(tri[0].Position.Y, math.Max(tri[1].Position.Y, tri[2].Position.Y))

	return bbox{
		minX: clampInt(int(math.Floor(minX))-bboxMargin, 0, width),
		minY: clampInt(int(math.Floor(minY))-bboxMargin, 0, height),
		maxX: clampInt(int(math.Ceil(maxX))+bboxMargin, 0, width),
		maxY: clampInt(int(math.Ceil(maxY))+bboxMargin, 0, height),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
