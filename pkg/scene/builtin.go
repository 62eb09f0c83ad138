package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

// ErrUnknownScene is returned by Build for a name it does not know.
var ErrUnknownScene = errors.New("unknown scene")

// Built-in scene names.
const (
	SceneTriangles = "triangles"
	SceneList      = "list"
	SceneStrip     = "strip"
	SceneModel     = "model"
)

// Names lists every scene Build accepts.
func Names() []string {
	return []string{SceneTriangles, SceneList, SceneStrip, SceneModel}
}

// Options configure scene construction.
type Options struct {
	FOV    float64     // Vertical field of view in degrees
	Aspect float64     // Viewport width / height
	Origin math3d.Vec3 // Camera position

	// Albedo replaces the generated UV grid on the grid scenes.
	Albedo *render.Texture

	// ModelPath is the glTF file shown by the model scene; Texture
	// overrides its base color image.
	ModelPath string
	Texture   *render.Texture

	// MaxTextureSize downscales larger images on load. Zero keeps them.
	MaxTextureSize int
}

// DefaultOptions returns the camera used by every built-in scene.
func DefaultOptions() Options {
	return Options{
		FOV:            60,
		Aspect:         4.0 / 3.0,
		Origin:         math3d.V3(0, 0, -10),
		MaxTextureSize: 512,
	}
}

func (o Options) camera() *render.Camera {
	return render.NewCamera(o.FOV, o.Origin, o.Aspect)
}

// Build creates the named scene.
func Build(name string, opts Options) (*Scene, error) {
	switch name {
	case SceneTriangles:
		return NewTriangles(opts)
	case SceneList:
		return NewGrid(opts, models.TopologyTriangleList)
	case SceneStrip:
		return NewGrid(opts, models.TopologyTriangleStrip)
	case SceneModel:
		return NewModel(opts)
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
}

// NewTriangles creates two overlapping vertex-colored triangles, the far
// one larger so both stay visible.
func NewTriangles(opts Options) (*Scene, error) {
	s := New(SceneTriangles, opts.camera())

	red := math3d.V3(1, 0, 0)
	mesh := models.NewMesh("triangles", models.TopologyTriangleList)
	mesh.Vertices = []models.Vertex{
		{Position: math3d.V3(0, 2, 0), Color: red},
		{Position: math3d.V3(1.5, -1, 0), Color: red},
		{Position: math3d.V3(-1.5, -1, 0), Color: red},

		{Position: math3d.V3(0, 4, 2), Color: red},
		{Position: math3d.V3(3, -2, 2), Color: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(-3, -2, 2), Color: math3d.V3(0, 0, 1)},
	}
	mesh.Indices = []uint32{0, 1, 2, 3, 4, 5}

	if err := s.AddMesh(mesh); err != nil {
		return nil, err
	}
	s.spin.Stop()
	return s, nil
}

// gridVertices is a 3x3 lattice of white vertices at z = -2 with UVs
// spanning the whole texture.
func gridVertices() []models.Vertex {
	verts := make([]models.Vertex, 0, 9)
	for row := range 3 {
		for col := range 3 {
			verts = append(verts, models.Vertex{
				Position: math3d.V3(float64(col-1)*3, float64(1-row)*3, -2),
				Color:    math3d.V3(1, 1, 1),
				UV:       math3d.V2(float64(col)*0.5, float64(row)*0.5),
			})
		}
	}
	return verts
}

// Both index buffers describe the same eight triangles. The strip joins
// its rows with the repeated index 2, 6.
var (
	gridList  = []uint32{3, 0, 1, 1, 4, 3, 4, 1, 2, 2, 5, 4, 6, 3, 4, 4, 7, 6, 7, 4, 5, 5, 8, 7}
	gridStrip = []uint32{3, 0, 4, 1, 5, 2, 2, 6, 6, 3, 7, 4, 8, 5}
)

// NewGrid creates the textured 3x3 quad grid as a triangle list or a
// triangle strip.
func NewGrid(opts Options, topology models.Topology) (*Scene, error) {
	name := SceneList
	indices := gridList
	if topology == models.TopologyTriangleStrip {
		name = SceneStrip
		indices = gridStrip
	}
	s := New(name, opts.camera())

	albedo := opts.Albedo
	if albedo == nil {
		albedo = render.NewUVGridTexture(256, 8)
	}
	s.SetDefaultMaterial(render.NewSolidColorMaterial(s.AddTexture(albedo), render.NoTexture))

	mesh := models.NewMesh(name, topology)
	mesh.Vertices = gridVertices()
	mesh.Indices = append([]uint32(nil), indices...)
	mesh.Material = DefaultMaterial

	if err := s.AddMesh(mesh); err != nil {
		return nil, err
	}
	// The grid sits still until rotation is toggled on
	s.spin.Stop()
	return s, nil
}
