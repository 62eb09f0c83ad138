// Package models provides the geometry buffers the softras pipeline draws
// and loaders that fill them.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/softras/pkg/math3d"
)

// ErrInvalidTopology is returned when a mesh's index buffer does not
// describe whole triangles for its topology.
var ErrInvalidTopology = errors.New("invalid topology")

// Topology selects how the index buffer is read as triangles.
type Topology int

const (
	// TopologyTriangleList reads every three indices as one triangle.
	TopologyTriangleList Topology = iota
	// TopologyTriangleStrip reads a sliding window of three indices.
	// Odd triangles have their last two corners swapped to keep winding.
	TopologyTriangleStrip
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyTriangleList:
		return "list"
	case TopologyTriangleStrip:
		return "strip"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// Vertex holds all vertex attributes. Color is linear RGB in [0, 1].
type Vertex struct {
	Position math3d.Vec3
	Color    math3d.Vec3
	UV       math3d.Vec2
	Normal   math3d.Vec3
	Tangent  math3d.Vec3
}

// Mesh is an indexed triangle mesh with a world transform and a material
// index into the owning scene.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Topology Topology

	// World places the mesh; scenes rewrite it every update.
	World    math3d.Mat4
	Position math3d.Vec3
	Rotation math3d.Vec3

	// Material indexes the scene's material arena. Out-of-range values
	// resolve to the default material.
	Material int

	// Bounding box in model space (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh with an identity world transform.
func NewMesh(name string, topology Topology) *Mesh {
	return &Mesh{
		Name:     name,
		Topology: topology,
		World:    math3d.Identity(),
	}
}

// Validate checks that the index buffer forms whole triangles and that
// every index names an existing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Indices)
	switch m.Topology {
	case TopologyTriangleList:
		if n%3 != 0 {
			return fmt.Errorf("mesh %q: list has %d indices, not a multiple of 3: %w", m.Name, n, ErrInvalidTopology)
		}
	case TopologyTriangleStrip:
		if n < 3 {
			return fmt.Errorf("mesh %q: strip has %d indices, need at least 3: %w", m.Name, n, ErrInvalidTopology)
		}
	default:
		return fmt.Errorf("mesh %q: unknown topology %d: %w", m.Name, int(m.Topology), ErrInvalidTopology)
	}

	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh %q: index %d at %d out of range (%d vertices): %w",
				m.Name, idx, i, len(m.Vertices), ErrInvalidTopology)
		}
	}
	return nil
}

// TriangleCount returns the number of triangles the index buffer yields,
// degenerate strip separators included.
func (m *Mesh) TriangleCount() int {
	switch m.Topology {
	case TopologyTriangleStrip:
		if len(m.Indices) < 3 {
			return 0
		}
		return len(m.Indices) - 2
	default:
		return len(m.Indices) / 3
	}
}

// Triangle returns the vertex indices of triangle i in buffer order.
// Strip triangles are not yet winding-corrected; see Winding.
func (m *Mesh) Triangle(i int) [3]uint32 {
	if m.Topology == TopologyTriangleStrip {
		return [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
	}
	base := 3 * i
	return [3]uint32{m.Indices[base], m.Indices[base+1], m.Indices[base+2]}
}

// Winding returns triangle i with the odd-strip swap applied, so every
// front face shares one winding.
func (m *Mesh) Winding(i int) [3]uint32 {
	tri := m.Triangle(i)
	if m.Topology == TopologyTriangleStrip && i%2 == 1 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	return tri
}

// IsDegenerate reports whether triangle i repeats a vertex index.
func (m *Mesh) IsDegenerate(i int) bool {
	tri := m.Triangle(i)
	return tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2]
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// eachTriangle calls fn for every non-degenerate triangle in winding order.
func (m *Mesh) eachTriangle(fn func(i0, i1, i2 uint32)) {
	for i := range m.TriangleCount() {
		if m.IsDegenerate(i) {
			continue
		}
		tri := m.Winding(i)
		fn(tri[0], tri[1], tri[2])
	}
}

// CalculateSmoothNormals computes averaged normals for smooth shading.
// Front faces wind clockwise as seen by the camera, so the face normal
// (v1-v0) x (v2-v0) points back toward the viewer.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	m.eachTriangle(func(i0, i1, i2 uint32) {
		v0 := m.Vertices[i0].Position
		v1 := m.Vertices[i1].Position
		v2 := m.Vertices[i2].Position

		// Area weighted, normalized below
		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(normal)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(normal)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(normal)
	})

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// CalculateTangents derives per-vertex tangents from positions and UVs.
// Triangles with a degenerate UV area contribute nothing; vertices left
// without a tangent get an arbitrary axis perpendicular to the normal.
func (m *Mesh) CalculateTangents() {
	for i := range m.Vertices {
		m.Vertices[i].Tangent = math3d.Zero3()
	}

	m.eachTriangle(func(i0, i1, i2 uint32) {
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		d1 := v1.UV.Sub(v0.UV)
		d2 := v2.UV.Sub(v0.UV)

		denom := d1.Cross(d2)
		if denom == 0 {
			return
		}
		t := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(1 / denom)

		m.Vertices[i0].Tangent = m.Vertices[i0].Tangent.Add(t)
		m.Vertices[i1].Tangent = m.Vertices[i1].Tangent.Add(t)
		m.Vertices[i2].Tangent = m.Vertices[i2].Tangent.Add(t)
	})

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		t := m.Vertices[i].Tangent.Reject(n)
		if t.Dot(t) < 1e-12 {
			if n.X > -0.9 && n.X < 0.9 {
				t = math3d.UnitX().Reject(n)
			} else {
				t = math3d.UnitY().Reject(n)
			}
		}
		m.Vertices[i].Tangent = t.Normalize()
	}
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = make([]Vertex, len(m.Vertices))
	clone.Indices = make([]uint32, len(m.Indices))
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return &clone
}
