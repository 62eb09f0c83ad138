package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// minDepth floors NDC depth before it is inverted, so a vertex sitting on
// the near plane cannot produce 0·Inf in the reciprocal sum.
const minDepth = 1e-7

// Context is the scratch state of one in-flight triangle: its three
// screen-space vertices, the current pixel's weights and the triangle's
// area and pixel box. It is reused for every triangle of a frame and must
// not be shared between goroutines; each tile worker owns one.
type Context struct {
	tri     [3]TransformedVertex
	weights [3]float64
	area    float64
	box     bbox
	stats   FrameStats
}

// project maps the three clip-space vertices to screen space.
func (c *Context) project(width, height int) {
	w, h := float64(width), float64(height)
	for i := range c.tri {
		toScreen(&c.tri[i], w, h)
	}
}

// prepare computes the signed area and pixel box of the screen-space
// triangle. It reports false for zero-area or back-facing triangles.
func (c *Context) prepare(width, height int) bool {
	c.area = signedArea(c.tri[0].Position.XY(), c.tri[1].Position.XY(), c.tri[2].Position.XY())
	if c.area <= 0 {
		return false
	}
	c.box = boundingBox(&c.tri, width, height)
	return !c.box.empty()
}

// cover runs the edge-function test for point p and stores the weights.
// For edge i (v_i → v_{i+1}) the sub-area cross(v_i - v_{i+1}, v_i - p)
// is the unnormalized weight of the opposite vertex v_{i+2}. Any negative
// sub-area puts p outside.
func (c *Context) cover(p math3d.Vec2) bool {
	invDoubleArea := 1 / (2 * c.area)
	for i := range 3 {
		a := c.tri[i].Position.XY()
		b := c.tri[(i+1)%3].Position.XY()
		sub := a.Sub(b).Cross(a.Sub(p))
		if sub < 0 {
			return false
		}
		c.weights[(i+2)%3] = sub * invDoubleArea
	}
	return true
}

// depth returns 1 / Σ(weight_i / z_i) for the current weights.
func (c *Context) depth() float64 {
	var sum float64
	for i := range 3 {
		sum += c.weights[i] / math.Max(c.tri[i].Position.Z, minDepth)
	}
	return 1 / sum
}

// surface interpolates the fragment attributes. Color and UV are
// perspective-correct through 1/w; the direction vectors use the plain
// weights and are renormalized.
func (c *Context) surface() Surface {
	var s Surface
	var invW float64
	for i := range 3 {
		v := &c.tri[i]
		pw := c.weights[i] / v.Position.W
		invW += pw

		s.Color = s.Color.Add(v.Color.Scale(pw))
		s.UV = s.UV.Add(v.UV.Scale(pw))

		s.Normal = s.Normal.Add(v.Normal.Scale(c.weights[i]))
		s.Tangent = s.Tangent.Add(v.Tangent.Scale(c.weights[i]))
		s.ViewDir = s.ViewDir.Add(v.ViewDir.Scale(c.weights[i]))
	}

	w := 1 / invW
	s.Color = s.Color.Scale(w)
	s.UV = s.UV.Scale(w)
	s.Normal = s.Normal.Normalize()
	s.Tangent = s.Tangent.Normalize()
	s.ViewDir = s.ViewDir.Normalize()
	return s
}

// rasterize scans the triangle in c over rows [rowLo, rowHi), depth
// tests every covered pixel and writes the shaded color on acceptance.
// It returns the number of pixels written.
func (r *Renderer) rasterize(c *Context, mat *Material, src TextureSource, rowLo, rowHi int) int {
	minY := max(c.box.minY, rowLo)
	maxY := min(c.box.maxY, rowHi)
	policy := r.opts.DepthPolicy

	written := 0
	for y := minY; y < maxY; y++ {
		row := y * r.width
		for x := c.box.minX; x < c.box.maxX; x++ {
			// Pixel centre
			if !c.cover(math3d.V2(float64(x)+0.5, float64(y)+0.5)) {
				continue
			}

			z := c.depth()
			idx := row + x
			if !policy.Passes(z, r.depth.Depth[idx]) {
				continue
			}
			r.depth.Depth[idx] = z

			if r.opts.Mode == ModeDepth {
				r.fb.Pixels[idx] = r.depthColor(z)
			} else {
				color := Shade(mat, src, c.surface(), r.opts.Shading, r.opts.Lighting)
				r.fb.Pixels[idx] = ToColor(color)
			}
			written++
		}
	}
	return written
}

// depthColor remaps z from the display range to grey.
func (r *Renderer) depthColor(z float64) Color {
	t := (z - r.opts.DepthNear) / (r.opts.DepthFar - r.opts.DepthNear)
	return ToColor(math3d.V3(t, t, t))
}

// outline draws the edges of the screen-space triangle in c.
func (r *Renderer) outline(c *Context) {
	for i := range 3 {
		a := c.tri[i].Position
		b := c.tri[(i+1)%3].Position
		r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), r.opts.WireColor)
	}
}
