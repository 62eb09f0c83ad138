package models

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.CalculateTangents {
		t.Error("CalculateTangents should default to true")
	}
	if loader.DecodeImages {
		t.Error("DecodeImages should default to false")
	}
}

// writeQuad saves a unit quad in the XY plane as a GLB and returns its path.
func writeQuad(t *testing.T, mode gltf.PrimitiveMode, indices []uint16) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0.5}, {1, 0, 0.5}, {0, 1, 0.5}, {1, 1, 0.5},
	})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{
		{0, 1}, {1, 1}, {0, 0}, {1, 0},
	})
	idx := modeler.WriteIndices(doc, indices)

	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Mode:    mode,
			Indices: gltf.Index(idx),
			Attributes: map[string]int{
				gltf.POSITION:   pos,
				gltf.TEXCOORD_0: uv,
			},
		}},
	}}

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLBTriangleList(t *testing.T) {
	path := writeQuad(t, gltf.PrimitiveTriangles, []uint16{0, 1, 2, 2, 1, 3})

	model, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if len(model.Meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(model.Meshes))
	}

	mesh := model.Meshes[0]
	if mesh.Topology != TopologyTriangleList {
		t.Errorf("topology = %v, want list", mesh.Topology)
	}
	if mesh.Material != -1 {
		t.Errorf("material = %d, want -1", mesh.Material)
	}

	want := []uint32{0, 2, 1, 2, 3, 1}
	for i, idx := range want {
		if mesh.Indices[i] != idx {
			t.Errorf("index %d = %d, want %d", i, mesh.Indices[i], idx)
		}
	}

	if z := mesh.Vertices[0].Position.Z; z != -0.5 {
		t.Errorf("z = %v, want -0.5 after handedness flip", z)
	}

	for i, v := range mesh.Vertices {
		if math.Abs(v.Normal.Z+1) > 1e-9 {
			t.Errorf("vertex %d normal = %v, want (0, 0, -1)", i, v.Normal)
		}
		if math.Abs(v.Tangent.Len()-1) > 1e-9 {
			t.Errorf("vertex %d tangent not unit: %v", i, v.Tangent)
		}
	}
}

func TestLoadGLBTriangleStrip(t *testing.T) {
	path := writeQuad(t, gltf.PrimitiveTriangleStrip, []uint16{0, 1, 2, 3})

	model, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	mesh := model.Meshes[0]

	if mesh.Topology != TopologyTriangleStrip {
		t.Fatalf("topology = %v, want strip", mesh.Topology)
	}
	if got := mesh.TriangleCount(); got != 3 {
		t.Errorf("TriangleCount = %d, want 3", got)
	}
	if !mesh.IsDegenerate(0) {
		t.Error("rewound strip should start with a degenerate triangle")
	}

	for i, v := range mesh.Vertices {
		if math.Abs(v.Normal.Z+1) > 1e-9 {
			t.Errorf("vertex %d normal = %v, want (0, 0, -1)", i, v.Normal)
		}
	}
}

func TestLoadGLBWithTexturesNoImages(t *testing.T) {
	path := writeQuad(t, gltf.PrimitiveTriangles, []uint16{0, 1, 2})

	model, err := LoadGLBWithTextures(path)
	if err != nil {
		t.Fatalf("LoadGLBWithTextures: %v", err)
	}
	if len(model.Images) != 0 {
		t.Errorf("got %d images, want 0", len(model.Images))
	}
	if model.Name != "quad.glb" {
		t.Errorf("name = %q, want quad.glb", model.Name)
	}
}
