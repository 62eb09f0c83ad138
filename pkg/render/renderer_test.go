package render

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
)

// testScene is a minimal Scene for pipeline tests.
type testScene struct {
	cam       *Camera
	meshes    []*models.Mesh
	materials []Material
	textures  []*Texture
}

func newTestScene(width, height int) *testScene {
	return &testScene{
		cam: NewCamera(60, math3d.V3(0, 0, -10), float64(width)/float64(height)),
	}
}

func (s *testScene) Camera() *Camera        { return s.cam }
func (s *testScene) Meshes() []*models.Mesh { return s.meshes }

func (s *testScene) add(m *models.Mesh) *testScene {
	m.CalculateBounds()
	s.meshes = append(s.meshes, m)
	return s
}

func (s *testScene) Material(idx int) *Material {
	if len(s.materials) == 0 {
		return nil
	}
	if idx < 0 || idx >= len(s.materials) {
		idx = 0
	}
	return &s.materials[idx]
}

func (s *testScene) Texture(ref TextureRef) *Texture {
	if ref < 0 || int(ref) >= len(s.textures) {
		return nil
	}
	return s.textures[ref]
}

// quadVertices returns the corners top-left, top-right, bottom-left,
// bottom-right of an axis-aligned quad facing a camera looking down +Z.
func quadVertices(x0, x1, y0, y1, z float64, color math3d.Vec3) []models.Vertex {
	corners := [4]math3d.Vec3{
		math3d.V3(x0, y1, z),
		math3d.V3(x1, y1, z),
		math3d.V3(x0, y0, z),
		math3d.V3(x1, y0, z),
	}
	uvs := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}

	verts := make([]models.Vertex, 4)
	for i := range verts {
		verts[i] = models.Vertex{
			Position: corners[i],
			Color:    color,
			UV:       uvs[i],
			Normal:   math3d.V3(0, 0, -1),
			Tangent:  math3d.V3(1, 0, 0),
		}
	}
	return verts
}

// twoQuads returns two side-by-side quads as a list or as a strip joined
// by degenerate separators.
func twoQuads(topology models.Topology, z float64) *models.Mesh {
	m := models.NewMesh("quads", topology)
	m.Vertices = append(quadVertices(-3, -1, -1, 1, z, math3d.V3(1, 0, 0)),
		quadVertices(1, 3, -1, 1, z, math3d.V3(0, 1, 0))...)
	if topology == models.TopologyTriangleStrip {
		m.Indices = []uint32{0, 1, 2, 3, 3, 4, 4, 5, 6, 7}
	} else {
		m.Indices = []uint32{0, 1, 2, 1, 3, 2, 4, 5, 6, 5, 7, 6}
	}
	return m
}

func newTestRenderer(t testing.TB, width, height int, opts Options) *Renderer {
	t.Helper()
	r, err := NewRenderer(width, height, nil, nil, opts)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestNewRendererErrors(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		fb     *Framebuffer
		depth  *DepthBuffer
		target error
	}{
		{"zero width", 0, 10, nil, nil, ErrInvalidViewport},
		{"negative height", 10, -1, nil, nil, ErrInvalidViewport},
		{"color buffer size", 10, 10, NewFramebuffer(10, 9), nil, ErrBufferDimensionMismatch},
		{"depth buffer size", 10, 10, nil, NewDepthBuffer(11, 10), ErrBufferDimensionMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRenderer(tc.w, tc.h, tc.fb, tc.depth, DefaultOptions())
			if !errors.Is(err, tc.target) {
				t.Errorf("got %v, want %v", err, tc.target)
			}
		})
	}

	t.Run("matching buffers", func(t *testing.T) {
		fb := NewFramebuffer(8, 4)
		r, err := NewRenderer(8, 4, fb, NewDepthBuffer(8, 4), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Framebuffer() != fb {
			t.Error("renderer did not keep the supplied color buffer")
		}
	})
}

func TestSingleTriangleEndToEnd(t *testing.T) {
	r := newTestRenderer(t, 640, 480, DefaultOptions())
	r.Clear()

	tri := [3]TransformedVertex{
		screenVertex(160, 120, 0.5, 1),
		screenVertex(480, 120, 0.5, 1),
		screenVertex(320, 360, 0.5, 1),
	}
	mat := NewSolidColorMaterial(NoTexture, NoTexture)
	if !r.DrawScreenTriangle(tri, &mat, nil) {
		t.Fatal("DrawScreenTriangle rejected a front-facing triangle")
	}

	if z := r.DepthBuffer().At(320, 200); !almostEqual(z, 0.5, 1e-12) {
		t.Errorf("depth at centroid = %v, want 0.5", z)
	}
	if c := r.Framebuffer().GetPixel(320, 200); c == ColorGray {
		t.Errorf("color at centroid = %v, want a shaded color", c)
	}

	if z := r.DepthBuffer().At(10, 10); !math.IsInf(z, 1) {
		t.Errorf("depth at (10, 10) = %v, want +Inf", z)
	}
	if c := r.Framebuffer().GetPixel(10, 10); c != ColorGray {
		t.Errorf("color at (10, 10) = %v, want clear color %v", c, ColorGray)
	}
}

func TestShadeWithoutAlbedoTexture(t *testing.T) {
	src := &countingSource{}
	mat := NewLambertMaterial(NoTexture, NoTexture, 0.8)
	light := DefaultLighting()

	s := Surface{
		Color:   math3d.V3(1, 0, 0),
		Normal:  math3d.V3(0, 0, -1),
		Tangent: math3d.V3(1, 0, 0),
		ViewDir: math3d.V3(0, 0, 1),
	}
	observed := ObservedArea(light.Direction, s.Normal)

	got := Shade(&mat, src, s, ShadeCombined, light)
	want := math3d.V3(observed, 0, 0)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if src.calls != 0 {
		t.Errorf("texture lookups = %d, want 0", src.calls)
	}
}

func TestDepthBufferKeepsNearest(t *testing.T) {
	near := [3]TransformedVertex{
		screenVertex(10, 10, 0.4, 1),
		screenVertex(50, 10, 0.4, 1),
		screenVertex(30, 40, 0.4, 1),
	}
	far := [3]TransformedVertex{
		screenVertex(5, 5, 0.6, 1),
		screenVertex(55, 5, 0.6, 1),
		screenVertex(30, 45, 0.6, 1),
	}
	mat := NewSolidColorMaterial(NoTexture, NoTexture)

	for _, order := range [][2][3]TransformedVertex{{near, far}, {far, near}} {
		r := newTestRenderer(t, 64, 48, DefaultOptions())
		r.Clear()
		r.DrawScreenTriangle(order[0], &mat, nil)
		r.DrawScreenTriangle(order[1], &mat, nil)

		if z := r.DepthBuffer().At(30, 20); !almostEqual(z, 0.4, 1e-12) {
			t.Errorf("depth under both triangles = %v, want 0.4", z)
		}
		if z := r.DepthBuffer().At(8, 6); !almostEqual(z, 0.6, 1e-12) {
			t.Errorf("depth under far triangle only = %v, want 0.6", z)
		}
		for i, z := range r.DepthBuffer().Depth {
			if !math.IsInf(z, 1) && z > 0.6+1e-12 {
				t.Fatalf("pixel %d holds depth %v, deeper than every candidate", i, z)
			}
		}
	}
}

func TestDepthPolicyTies(t *testing.T) {
	tri := func(color math3d.Vec3) [3]TransformedVertex {
		out := [3]TransformedVertex{
			screenVertex(10, 10, 0.5, 1),
			screenVertex(50, 10, 0.5, 1),
			screenVertex(30, 40, 0.5, 1),
		}
		for i := range out {
			out[i].Color = color
		}
		return out
	}
	first := tri(math3d.V3(1, 0, 0))
	second := tri(math3d.V3(0, 0, 1))
	mat := NewSolidColorMaterial(NoTexture, NoTexture)

	opts := DefaultOptions()
	opts.Lighting.Direction = math3d.V3(0, 0, 1)

	tests := []struct {
		policy DepthPolicy
		want   Color
	}{
		{DepthLessOrEqual, RGB(0, 0, 255)},
		{DepthLess, RGB(255, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.policy.String(), func(t *testing.T) {
			opts.DepthPolicy = tc.policy
			r := newTestRenderer(t, 64, 48, opts)
			r.Clear()
			r.DrawScreenTriangle(first, &mat, nil)
			r.DrawScreenTriangle(second, &mat, nil)

			if got := r.Framebuffer().GetPixel(30, 20); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStripDegeneratesMatchList(t *testing.T) {
	const w, h = 64, 48

	list := newTestRenderer(t, w, h, DefaultOptions())
	listStats := list.Render(newTestScene(w, h).add(twoQuads(models.TopologyTriangleList, 0)))

	strip := newTestRenderer(t, w, h, DefaultOptions())
	stripStats := strip.Render(newTestScene(w, h).add(twoQuads(models.TopologyTriangleStrip, 0)))

	if stripStats.Triangles != 8 || stripStats.Degenerate != 4 {
		t.Errorf("strip triangles = %d (degenerate %d), want 8 (4)",
			stripStats.Triangles, stripStats.Degenerate)
	}
	if stripStats.Drawn != 4 || listStats.Drawn != 4 {
		t.Errorf("drawn = %d strip, %d list, want 4", stripStats.Drawn, listStats.Drawn)
	}
	if stripStats.Pixels == 0 {
		t.Fatal("strip rendered no pixels")
	}
	if stripStats.Pixels != listStats.Pixels {
		t.Errorf("pixels = %d strip, %d list", stripStats.Pixels, listStats.Pixels)
	}
	if !slices.Equal(strip.Framebuffer().Pixels, list.Framebuffer().Pixels) {
		t.Error("strip and list color buffers differ")
	}

	// Nothing lands between the quads, where the degenerate triangles sit
	if c := strip.Framebuffer().GetPixel(w/2, h/2); c != ColorGray {
		t.Errorf("pixel between quads = %v, want clear color", c)
	}
}

func TestRenderRejections(t *testing.T) {
	const w, h = 64, 48

	t.Run("back facing", func(t *testing.T) {
		m := models.NewMesh("back", models.TopologyTriangleList)
		m.Vertices = quadVertices(-1, 1, -1, 1, 0, math3d.V3(1, 1, 1))
		m.Indices = []uint32{0, 2, 1}

		stats := newTestRenderer(t, w, h, DefaultOptions()).Render(newTestScene(w, h).add(m))
		if stats.BackFacing != 1 || stats.Pixels != 0 {
			t.Errorf("back facing = %d, pixels = %d, want 1, 0", stats.BackFacing, stats.Pixels)
		}
	})

	t.Run("vertex behind camera", func(t *testing.T) {
		m := models.NewMesh("behind", models.TopologyTriangleList)
		m.Vertices = quadVertices(-1, 1, -1, 1, 0, math3d.V3(1, 1, 1))
		m.Vertices[2].Position.Z = -20
		m.Indices = []uint32{0, 1, 2}

		stats := newTestRenderer(t, w, h, DefaultOptions()).Render(newTestScene(w, h).add(m))
		if stats.OutOfFrustum != 1 || stats.Pixels != 0 {
			t.Errorf("out of frustum = %d, pixels = %d, want 1, 0", stats.OutOfFrustum, stats.Pixels)
		}
	})

	t.Run("mesh culled by bounds", func(t *testing.T) {
		m := twoQuads(models.TopologyTriangleList, -30)
		stats := newTestRenderer(t, w, h, DefaultOptions()).Render(newTestScene(w, h).add(m))
		if stats.MeshesCulled != 1 || stats.Triangles != 0 {
			t.Errorf("culled = %d, triangles = %d, want 1, 0", stats.MeshesCulled, stats.Triangles)
		}
	})
}

func TestTiledMatchesSerial(t *testing.T) {
	const w, h = 97, 61

	build := func() *testScene {
		s := newTestScene(w, h)
		s.textures = []*Texture{NewUVGridTexture(32, 4)}
		s.materials = []Material{NewSolidColorMaterial(0, NoTexture)}

		back := twoQuads(models.TopologyTriangleStrip, 2)
		front := twoQuads(models.TopologyTriangleList, 0)
		front.World = math3d.RotateY(0.3)
		// Coplanar with back's left quad, exercises tie order
		tie := twoQuads(models.TopologyTriangleList, 2)
		tie.Vertices = tie.Vertices[:4]
		tie.Indices = tie.Indices[:6]
		return s.add(back).add(front).add(tie)
	}

	serial := newTestRenderer(t, w, h, DefaultOptions())
	serialStats := serial.Render(build())

	opts := DefaultOptions()
	opts.Workers = 4
	tiled := newTestRenderer(t, w, h, opts)
	tiledStats := tiled.Render(build())

	if serialStats != tiledStats {
		t.Errorf("stats differ:\nserial %+v\ntiled  %+v", serialStats, tiledStats)
	}
	if !slices.Equal(serial.Framebuffer().Pixels, tiled.Framebuffer().Pixels) {
		t.Error("color buffers differ")
	}
	if !slices.Equal(serial.DepthBuffer().Depth, tiled.DepthBuffer().Depth) {
		t.Error("depth buffers differ")
	}
}

func TestDepthMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeDepth
	r := newTestRenderer(t, 64, 48, opts)
	r.Clear()

	tri := [3]TransformedVertex{
		screenVertex(10, 10, 0.85, 1),
		screenVertex(50, 10, 0.85, 1),
		screenVertex(30, 40, 0.85, 1),
	}
	mat := NewSolidColorMaterial(NoTexture, NoTexture)
	r.DrawScreenTriangle(tri, &mat, nil)

	// (0.85 - 0.8) / 0.2 = 0.25
	if got, want := r.Framebuffer().GetPixel(30, 20), RGB(64, 64, 64); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWireframeMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeWireframe
	r := newTestRenderer(t, 64, 48, opts)
	r.Clear()

	tri := [3]TransformedVertex{
		screenVertex(10, 10, 0.5, 1),
		screenVertex(50, 10, 0.5, 1),
		screenVertex(30, 40, 0.5, 1),
	}
	mat := NewSolidColorMaterial(NoTexture, NoTexture)
	r.DrawScreenTriangle(tri, &mat, nil)

	if got := r.Framebuffer().GetPixel(30, 10); got != opts.WireColor {
		t.Errorf("edge pixel = %v, want %v", got, opts.WireColor)
	}
	if got := r.Framebuffer().GetPixel(30, 20); got != ColorGray {
		t.Errorf("interior pixel = %v, want clear color", got)
	}
}

func TestRendererModeCycling(t *testing.T) {
	r := newTestRenderer(t, 8, 8, DefaultOptions())

	want := []RenderMode{ModeDepth, ModeWireframe, ModeTexture}
	for _, m := range want {
		if got := r.CycleMode(); got != m {
			t.Errorf("CycleMode() = %v, want %v", got, m)
		}
	}

	wantShading := []ShadingMode{ShadeObservedArea, ShadeDiffuse, ShadeSpecular, ShadeCombined}
	for _, m := range wantShading {
		if got := r.CycleShading(); got != m {
			t.Errorf("CycleShading() = %v, want %v", got, m)
		}
	}

	if r.ToggleNormalMapping() {
		t.Error("normal mapping still enabled after toggle")
	}
}

func TestResize(t *testing.T) {
	r := newTestRenderer(t, 8, 8, DefaultOptions())
	if err := r.Resize(0, 4); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("got %v, want %v", err, ErrInvalidViewport)
	}
	if err := r.Resize(16, 4); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if r.Width() != 16 || r.Height() != 4 || len(r.DepthBuffer().Depth) != 64 {
		t.Errorf("size after resize = %dx%d", r.Width(), r.Height())
	}
}

func BenchmarkRender(b *testing.B) {
	const w, h = 320, 240
	scene := newTestScene(w, h)
	scene.textures = []*Texture{NewUVGridTexture(64, 8)}
	scene.materials = []Material{NewSolidColorMaterial(0, NoTexture)}
	scene.add(twoQuads(models.TopologyTriangleStrip, 0))

	for _, bc := range []struct {
		name    string
		workers int
	}{{"serial", 1}, {"tiled", 4}} {
		opts := DefaultOptions()
		opts.Workers = bc.workers
		r := newTestRenderer(b, w, h, opts)

		b.Run(bc.name, func(b *testing.B) {
			for b.Loop() {
				r.Render(scene)
			}
		})
	}
}
