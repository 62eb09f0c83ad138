package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softras/pkg/math3d"
)

// MaterialInfo describes a glTF material by the images it references.
// Image fields index Model.Images and are -1 when absent.
type MaterialInfo struct {
	Name           string
	BaseColor      [4]float64
	BaseColorImage int
	NormalImage    int
}

// Model is a loaded glTF document: one mesh per triangle primitive.
type Model struct {
	Name   string
	Meshes []*Mesh

	// Materials is indexed by Mesh.Material; meshes without a glTF
	// material carry -1.
	Materials []MaterialInfo

	// Images holds decoded textures keyed by glTF image index. Images
	// that fail to decode are left out.
	Images map[int]image.Image
}

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals  bool
	CalculateTangents bool
	DecodeImages      bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals:  true,
		CalculateTangents: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file without decoding its images.
func LoadGLB(path string) (*Model, error) {
	return NewGLTFLoader().Load(path)
}

// LoadGLBWithTextures loads a GLB file and decodes every image it
// references, embedded or external.
func LoadGLBWithTextures(path string) (*Model, error) {
	loader := NewGLTFLoader()
	loader.DecodeImages = true
	return loader.Load(path)
}

// Load loads a GLTF or GLB file.
//
// glTF is right-handed with counter-clockwise front faces. Positions,
// normals and tangents have Z negated to move into the renderer's
// left-handed space, and every triangle is rewound to clockwise.
func (l *GLTFLoader) Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	model := &Model{
		Name:   filepath.Base(path),
		Images: make(map[int]image.Image),
	}

	for _, m := range doc.Materials {
		model.Materials = append(model.Materials, materialInfo(doc, m))
	}

	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			mesh, err := l.processPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("process mesh %q primitive %d: %w", m.Name, pi, err)
			}
			if mesh == nil {
				continue
			}
			mesh.Name = fmt.Sprintf("%s/%d", meshName(m.Name, mi), pi)
			model.Meshes = append(model.Meshes, mesh)
		}
	}

	if l.DecodeImages {
		for i, img := range doc.Images {
			data, err := imageData(doc, img, filepath.Dir(path))
			if err != nil || len(data) == 0 {
				continue
			}
			decoded, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				continue
			}
			model.Images[i] = decoded
		}
	}

	return model, nil
}

func meshName(name string, idx int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("mesh%d", idx)
}

// processPrimitive extracts one primitive. Lines and points return nil.
func (l *GLTFLoader) processPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*Mesh, error) {
	var topology Topology
	switch prim.Mode {
	case gltf.PrimitiveTriangles:
		topology = TopologyTriangleList
	case gltf.PrimitiveTriangleStrip:
		topology = TopologyTriangleStrip
	default:
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var tangents [][4]float32
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		if tangents, err = modeler.ReadTangent(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("read tangents: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
	}

	var colors [][4]uint8
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if colors, err = modeler.ReadColor(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("read colors: %w", err)
		}
	}

	mesh := NewMesh("", topology)
	mesh.Material = -1
	if prim.Material != nil {
		mesh.Material = *prim.Material
	}

	mesh.Vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{
			Position: math3d.V3(float64(p[0]), float64(p[1]), -float64(p[2])),
			Color:    math3d.V3(1, 1, 1),
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math3d.V3(float64(n[0]), float64(n[1]), -float64(n[2]))
		}
		if i < len(tangents) {
			t := tangents[i]
			v.Tangent = math3d.V3(float64(t[0]), float64(t[1]), -float64(t[2]))
		}
		if i < len(uvs) {
			// glTF UVs already use a top-left origin, matching texture rows.
			v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
		}
		if i < len(colors) {
			c := colors[i]
			v.Color = math3d.V3(float64(c[0])/255, float64(c[1])/255, float64(c[2])/255)
		}
		mesh.Vertices[i] = v
	}

	if prim.Indices != nil {
		mesh.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		// No indices, draw vertices in order
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	rewind(mesh)

	if l.CalculateNormals && len(normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	if l.CalculateTangents && len(tangents) == 0 {
		mesh.CalculateTangents()
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// rewind reverses the winding of every triangle. A strip gets its first
// index repeated, which inserts one degenerate triangle and flips the
// parity of all the others.
func rewind(mesh *Mesh) {
	switch mesh.Topology {
	case TopologyTriangleList:
		for i := 0; i+2 < len(mesh.Indices); i += 3 {
			mesh.Indices[i+1], mesh.Indices[i+2] = mesh.Indices[i+2], mesh.Indices[i+1]
		}
	case TopologyTriangleStrip:
		mesh.Indices = append([]uint32{mesh.Indices[0]}, mesh.Indices...)
	}
}

func materialInfo(doc *gltf.Document, m *gltf.Material) MaterialInfo {
	info := MaterialInfo{
		Name:           m.Name,
		BaseColor:      [4]float64{1, 1, 1, 1},
		BaseColorImage: -1,
		NormalImage:    -1,
	}

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			info.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.BaseColorTexture != nil {
			info.BaseColorImage = textureImage(doc, pbr.BaseColorTexture.Index)
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		info.NormalImage = textureImage(doc, *m.NormalTexture.Index)
	}
	return info
}

// textureImage resolves a glTF texture index to its source image index.
func textureImage(doc *gltf.Document, texIdx int) int {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return -1
	}
	if src := doc.Textures[texIdx].Source; src != nil {
		return *src
	}
	return -1
}

// imageData returns the encoded bytes of a glTF image.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	if img.BufferView != nil {
		return modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	}
	if img.URI == "" || img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	return os.ReadFile(filepath.Join(dir, img.URI))
}
