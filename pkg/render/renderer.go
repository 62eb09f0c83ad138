package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/softras/pkg/models"
)

var (
	// ErrInvalidViewport is returned for a non-positive width or height.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrBufferDimensionMismatch is returned when a color or depth buffer
	// does not match the viewport size.
	ErrBufferDimensionMismatch = errors.New("buffer dimension mismatch")
)

// vertexColorMaterial shades with interpolated vertex colors.
var vertexColorMaterial = NewSolidColorMaterial(NoTexture, NoTexture)

// Scene is what the renderer draws. Implementations own meshes,
// materials and textures; the renderer only reads them during a frame.
type Scene interface {
	TextureSource
	Camera() *Camera
	Meshes() []*models.Mesh
	// Material resolves a mesh's material index. Unknown indices must
	// resolve to a default material, never nil.
	Material(idx int) *Material
}

// Options configure a Renderer.
type Options struct {
	Mode        RenderMode
	Shading     ShadingMode
	DepthPolicy DepthPolicy

	// DepthNear and DepthFar bound the depth range shown by ModeDepth.
	DepthNear float64
	DepthFar  float64

	// Workers > 1 enables the tiled scan and parallel vertex transform.
	Workers int

	ClearColor Color
	WireColor  Color
	Lighting   Lighting
}

// DefaultOptions returns single-threaded textured rendering with the
// less-or-equal depth test.
func DefaultOptions() Options {
	return Options{
		Mode:        ModeTexture,
		Shading:     ShadeCombined,
		DepthPolicy: DepthLessOrEqual,
		DepthNear:   0.8,
		DepthFar:    1,
		Workers:     1,
		ClearColor:  ColorGray,
		WireColor:   ColorWhite,
		Lighting:    DefaultLighting(),
	}
}

// Renderer runs the pipeline into a color buffer and a depth buffer of
// the viewport's size.
type Renderer struct {
	width, height int
	fb            *Framebuffer
	depth         *DepthBuffer
	opts          Options

	frustum Frustum
	stats   FrameStats

	// Frame-scoped scratch, reused across frames
	ctx         Context
	transformed []TransformedVertex
	prepared    []preparedTriangle
	bands       []Context
}

// NewRenderer creates a renderer for a width × height viewport. Nil
// buffers are allocated; supplied buffers must match the viewport.
func NewRenderer(width, height int, fb *Framebuffer, depth *DepthBuffer, opts Options) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("viewport %dx%d: %w", width, height, ErrInvalidViewport)
	}
	if fb == nil {
		fb = NewFramebuffer(width, height)
	}
	if depth == nil {
		depth = NewDepthBuffer(width, height)
	}
	if fb.Width != width || fb.Height != height || len(fb.Pixels) != width*height {
		return nil, fmt.Errorf("color buffer %dx%d for viewport %dx%d: %w",
			fb.Width, fb.Height, width, height, ErrBufferDimensionMismatch)
	}
	if depth.Width != width || depth.Height != height || len(depth.Depth) != width*height {
		return nil, fmt.Errorf("depth buffer %dx%d for viewport %dx%d: %w",
			depth.Width, depth.Height, width, height, ErrBufferDimensionMismatch)
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.DepthFar <= opts.DepthNear {
		opts.DepthNear, opts.DepthFar = 0.8, 1
	}
	opts.Lighting.Direction = opts.Lighting.Direction.Normalize()

	Logger().Info("renderer created",
		"width", width, "height", height,
		"mode", opts.Mode.String(), "workers", opts.Workers,
		"depth_policy", opts.DepthPolicy.String())

	return &Renderer{
		width:  width,
		height: height,
		fb:     fb,
		depth:  depth,
		opts:   opts,
	}, nil
}

// Resize reallocates both buffers for a new viewport.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", width, height, ErrInvalidViewport)
	}
	r.width, r.height = width, height
	r.fb = NewFramebuffer(width, height)
	r.depth = NewDepthBuffer(width, height)
	return nil
}

// Width returns the viewport width.
func (r *Renderer) Width() int { return r.width }

// Height returns the viewport height.
func (r *Renderer) Height() int { return r.height }

// Framebuffer returns the color buffer.
func (r *Renderer) Framebuffer() *Framebuffer { return r.fb }

// DepthBuffer returns the depth buffer.
func (r *Renderer) DepthBuffer() *DepthBuffer { return r.depth }

// Options returns the current options.
func (r *Renderer) Options() Options { return r.opts }

// Stats returns the statistics of the last frame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// Mode returns the current render mode.
func (r *Renderer) Mode() RenderMode { return r.opts.Mode }

// SetMode selects the render mode.
func (r *Renderer) SetMode(m RenderMode) {
	r.opts.Mode = m
	Logger().Info("render mode", "mode", m.String())
}

// CycleMode advances to the next render mode and returns it.
func (r *Renderer) CycleMode() RenderMode {
	r.SetMode(r.opts.Mode.Next())
	return r.opts.Mode
}

// Shading returns the current shading mode.
func (r *Renderer) Shading() ShadingMode { return r.opts.Shading }

// SetShading selects the shading mode.
func (r *Renderer) SetShading(m ShadingMode) {
	r.opts.Shading = m
	Logger().Info("shading mode", "shading", m.String())
}

// CycleShading advances to the next shading mode and returns it.
func (r *Renderer) CycleShading() ShadingMode {
	r.SetShading(r.opts.Shading.Next())
	return r.opts.Shading
}

// ToggleNormalMapping flips normal map lookups and returns the new state.
func (r *Renderer) ToggleNormalMapping() bool {
	r.opts.Lighting.NormalMapping = !r.opts.Lighting.NormalMapping
	Logger().Info("normal mapping", "enabled", r.opts.Lighting.NormalMapping)
	return r.opts.Lighting.NormalMapping
}

// SetDepthPolicy selects the depth test.
func (r *Renderer) SetDepthPolicy(p DepthPolicy) {
	r.opts.DepthPolicy = p
}

// SetWorkers sets the worker count; values below 1 mean serial.
func (r *Renderer) SetWorkers(n int) {
	r.opts.Workers = max(1, n)
}

// Clear resets the color buffer to the clear color and depth to +Inf.
func (r *Renderer) Clear() {
	r.fb.Clear(r.opts.ClearColor)
	r.depth.Clear()
}

// Render draws one frame of scene and returns its statistics. The frame
// is complete when Render returns.
func (r *Renderer) Render(scene Scene) FrameStats {
	r.stats = FrameStats{}
	r.prepared = r.prepared[:0]
	r.Clear()

	cam := scene.Camera()
	viewProj := cam.ViewProjectionMatrix()
	r.frustum = NewFrustumFromMatrix(viewProj)

	// Wireframe lines cross band edges, so they always draw serially.
	tiled := r.opts.Workers > 1 && r.opts.Mode != ModeWireframe

	for _, mesh := range scene.Meshes() {
		if !r.meshVisible(mesh.BoundsMin, mesh.BoundsMax, mesh.World) {
			continue
		}
		r.transformed = transformMesh(r.transformed, mesh, viewProj, cam.Origin, r.opts.Workers)
		r.stats.Vertices += len(r.transformed)
		mat := scene.Material(mesh.Material)
		if mat == nil {
			mat = &vertexColorMaterial
		}
		r.drawMesh(mesh, mat, scene, tiled)
	}

	if tiled {
		r.rasterizeBands(scene)
	}

	Logger().Debug("frame", "stats", r.stats)
	return r.stats
}

// drawMesh resolves, culls and sets up every triangle of mesh from the
// transformed vertex buffer.
func (r *Renderer) drawMesh(mesh *models.Mesh, mat *Material, src TextureSource, tiled bool) {
	strip := mesh.Topology == models.TopologyTriangleStrip
	c := &r.ctx

	for i := range mesh.TriangleCount() {
		r.stats.Triangles++
		if strip && mesh.IsDegenerate(i) {
			r.stats.Degenerate++
			continue
		}

		idx := mesh.Winding(i)
		c.tri[0] = r.transformed[idx[0]]
		c.tri[1] = r.transformed[idx[1]]
		c.tri[2] = r.transformed[idx[2]]

		if outsideFrustum(&c.tri) {
			r.stats.OutOfFrustum++
			continue
		}

		c.project(r.width, r.height)
		if !c.prepare(r.width, r.height) {
			r.stats.BackFacing++
			continue
		}
		r.stats.Drawn++

		switch {
		case r.opts.Mode == ModeWireframe:
			r.outline(c)
		case tiled:
			r.queue(c, mat)
		default:
			r.stats.Pixels += r.rasterize(c, mat, src, 0, r.height)
		}
	}
}

// DrawScreenTriangle rasterizes one triangle whose positions are already
// in screen space (X, Y in pixels, Z depth, W for interpolation) without
// clearing the buffers. It reports whether the triangle passed setup.
func (r *Renderer) DrawScreenTriangle(tri [3]TransformedVertex, mat *Material, src TextureSource) bool {
	c := &r.ctx
	c.tri = tri
	if !c.prepare(r.width, r.height) {
		return false
	}
	if r.opts.Mode == ModeWireframe {
		r.outline(c)
		return true
	}
	r.stats.Pixels += r.rasterize(c, mat, src, 0, r.height)
	return true
}

// SaveBufferToImage writes the color buffer to path; see SaveImage.
func (r *Renderer) SaveBufferToImage(path string) error {
	return SaveImage(r.fb, path)
}
