// Package scene owns the resources the renderer draws: meshes, materials
// and textures held in arenas and referenced by stable index.
package scene

import (
	"fmt"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

// DefaultMaterial is the arena slot every unresolved material index
// falls back to.
const DefaultMaterial = 0

// Scene is a camera plus arenas of textures, materials and meshes.
// Materials reference textures by render.TextureRef and meshes reference
// materials by index, so nothing dangles when a scene is dropped.
type Scene struct {
	Name string

	camera    *render.Camera
	textures  []*render.Texture
	materials []render.Material
	meshes    []*models.Mesh

	// base is applied before the per-mesh placement, used to fit
	// imported models into view.
	base math3d.Mat4
	spin *Spin
}

// New creates an empty scene whose default material passes vertex colors
// through. Replace it with SetDefaultMaterial.
func New(name string, camera *render.Camera) *Scene {
	s := &Scene{
		Name:   name,
		camera: camera,
		base:   math3d.Identity(),
		spin:   NewSpin(DefaultFPS, DefaultSpinSpeed),
	}
	s.materials = append(s.materials, render.NewSolidColorMaterial(render.NoTexture, render.NoTexture))
	return s
}

// Camera returns the scene camera.
func (s *Scene) Camera() *render.Camera { return s.camera }

// Meshes returns the meshes in draw order.
func (s *Scene) Meshes() []*models.Mesh { return s.meshes }

// AddTexture stores tex and returns its ref.
func (s *Scene) AddTexture(tex *render.Texture) render.TextureRef {
	s.textures = append(s.textures, tex)
	return render.TextureRef(len(s.textures) - 1)
}

// Texture implements render.TextureSource. Unknown refs return nil.
func (s *Scene) Texture(ref render.TextureRef) *render.Texture {
	if ref < 0 || int(ref) >= len(s.textures) {
		return nil
	}
	return s.textures[ref]
}

// TextureCount returns the number of textures in the arena.
func (s *Scene) TextureCount() int { return len(s.textures) }

// AddMaterial stores m and returns its index.
func (s *Scene) AddMaterial(m render.Material) int {
	s.materials = append(s.materials, m)
	return len(s.materials) - 1
}

// SetDefaultMaterial replaces the fallback material.
func (s *Scene) SetDefaultMaterial(m render.Material) {
	s.materials[DefaultMaterial] = m
}

// Material resolves idx, falling back to the default material for
// indices outside the arena.
func (s *Scene) Material(idx int) *render.Material {
	if idx < 0 || idx >= len(s.materials) {
		idx = DefaultMaterial
	}
	return &s.materials[idx]
}

// AddMesh validates m and adds it to the scene. Invalid index buffers are
// rejected here, before they can reach the pipeline.
func (s *Scene) AddMesh(m *models.Mesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("scene %s: add mesh %q: %w", s.Name, m.Name, err)
	}
	if !m.HasNormals() {
		m.CalculateSmoothNormals()
		m.CalculateTangents()
	}
	m.CalculateBounds()
	s.meshes = append(s.meshes, m)
	s.place(m)
	return nil
}

// TriangleCount returns the number of triangles over all meshes,
// degenerate strip separators included.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.meshes {
		n += m.TriangleCount()
	}
	return n
}

// Spin returns the scene's rotation state.
func (s *Scene) Spin() *Spin { return s.spin }

// ToggleRotation starts or stops the mesh spin and returns the new state.
func (s *Scene) ToggleRotation() bool {
	return s.spin.Toggle()
}

// Update advances the spin by dt seconds and rebuilds every world matrix.
func (s *Scene) Update(dt float64) {
	s.spin.Update(dt)
	for _, m := range s.meshes {
		s.place(m)
	}
}

// place sets m.World to translate · rotate · base.
func (s *Scene) place(m *models.Mesh) {
	rot := math3d.RotateY(m.Rotation.Y + s.spin.Angle).Mul(math3d.RotateX(m.Rotation.X))
	m.World = math3d.Translate(m.Position).Mul(rot).Mul(s.base)
}
