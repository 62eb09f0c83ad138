package render

import "github.com/taigrr/softras/pkg/math3d"

// insideNDC reports whether clip position p lands in the canonical
// volume x, y ∈ [-1, 1], z ∈ [0, 1] after the perspective divide.
func insideNDC(p math3d.Vec4) bool {
	ndc := p.PerspectiveDivide()
	return ndc.X >= -1 && ndc.X <= 1 &&
		ndc.Y >= -1 && ndc.Y <= 1 &&
		ndc.Z >= 0 && ndc.Z <= 1
}

// outsideFrustum reports whether any corner of tri leaves the volume.
// Straddling triangles are dropped whole; nothing is clipped.
func outsideFrustum(tri *[3]TransformedVertex) bool {
	return !insideNDC(tri[0].Position) ||
		!insideNDC(tri[1].Position) ||
		!insideNDC(tri[2].Position)
}

// meshVisible runs the coarse AABB test for a mesh. Meshes without
// bounds are always treated as visible.
func (r *Renderer) meshVisible(lo, hi math3d.Vec3, world math3d.Mat4) bool {
	if lo == hi {
		return true
	}
	r.stats.MeshesTested++
	if !r.frustum.IntersectAABB(NewAABB(lo, hi).Transform(world)) {
		r.stats.MeshesCulled++
		return false
	}
	r.stats.MeshesDrawn++
	return true
}
