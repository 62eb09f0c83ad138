package render

import (
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
)

// TransformedVertex is a vertex after the model-view-projection transform.
//
// Position holds clip coordinates until triangle setup maps the scratch
// copy to screen space: X and Y become pixels, Z the NDC depth, and W keeps
// the clip w for perspective-correct interpolation.
type TransformedVertex struct {
	Position math3d.Vec4
	Color    math3d.Vec3
	UV       math3d.Vec2
	Normal   math3d.Vec3 // World space
	Tangent  math3d.Vec3 // World space
	ViewDir  math3d.Vec3 // World position minus the camera origin
}

// TransformVertex maps v to clip space. Normal and tangent go through the
// world matrix without translation and are renormalized. No perspective
// divide happens here.
func TransformVertex(v models.Vertex, worldViewProj, world math3d.Mat4, eye math3d.Vec3) TransformedVertex {
	pos := math3d.V4FromV3(v.Position, 1)
	return TransformedVertex{
		Position: worldViewProj.MulVec4(pos),
		Color:    v.Color,
		UV:       v.UV,
		Normal:   world.MulVec3Dir(v.Normal).Normalize(),
		Tangent:  world.MulVec3Dir(v.Tangent).Normalize(),
		ViewDir:  world.MulPoint(v.Position).Sub(eye),
	}
}

// minTransformChunk keeps tiny meshes on the calling goroutine.
const minTransformChunk = 1024

// transformMesh fills dst with every vertex of mesh, reusing its capacity.
// With more than one worker the vertices are split into chunks; each
// output slot is written by exactly one goroutine.
func transformMesh(dst []TransformedVertex, mesh *models.Mesh, viewProj math3d.Mat4, eye math3d.Vec3, workers int) []TransformedVertex {
	n := len(mesh.Vertices)
	dst = dst[:0]
	if cap(dst) < n {
		dst = make([]TransformedVertex, 0, n)
	}
	dst = dst[:n]

	wvp := viewProj.Mul(mesh.World)
	run := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = TransformVertex(mesh.Vertices[i], wvp, mesh.World, eye)
		}
	}

	if workers <= 1 || n < 2*minTransformChunk {
		run(0, n)
		return dst
	}

	chunk := max(minTransformChunk, (n+workers-1)/workers)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			run(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	return dst
}
