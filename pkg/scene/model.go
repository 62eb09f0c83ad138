package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

// ErrNoModel is returned when the model scene is built without a path.
var ErrNoModel = errors.New("no model path")

const (
	// modelKd is the diffuse reflectance of imported materials.
	modelKd = 7.0
	// modelExtent is the size of an imported model's largest side after
	// fitting it in front of the camera.
	modelExtent = 6.0
)

// NewModel loads opts.ModelPath and fits it around the origin. Every glTF
// material becomes a Lambert material; base color and normal images are
// decoded into the texture arena, downscaled to opts.MaxTextureSize.
func NewModel(opts Options) (*Scene, error) {
	if opts.ModelPath == "" {
		return nil, fmt.Errorf("scene %s: %w", SceneModel, ErrNoModel)
	}

	model, err := models.LoadGLBWithTextures(opts.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", SceneModel, err)
	}
	if len(model.Meshes) == 0 {
		return nil, fmt.Errorf("scene %s: %s has no triangle meshes", SceneModel, model.Name)
	}

	s := New(model.Name, opts.camera())
	log := render.Logger().With("scene", s.Name)

	refs := make(map[int]render.TextureRef)
	texture := func(img int) render.TextureRef {
		if ref, ok := refs[img]; ok {
			return ref
		}
		decoded, ok := model.Images[img]
		if !ok {
			if img >= 0 {
				log.Warn("image not decoded, using vertex colors", "image", img)
			}
			return render.NoTexture
		}
		ref := s.AddTexture(render.TextureFromImage(decoded).Downscale(opts.MaxTextureSize))
		refs[img] = ref
		return ref
	}

	override := render.NoTexture
	if opts.Texture != nil {
		override = s.AddTexture(opts.Texture.Downscale(opts.MaxTextureSize))
		s.SetDefaultMaterial(render.NewLambertMaterial(override, render.NoTexture, modelKd))
	}

	materials := make([]int, len(model.Materials))
	for i, info := range model.Materials {
		albedo := override
		if albedo == render.NoTexture {
			albedo = texture(info.BaseColorImage)
		}
		m := render.NewLambertMaterial(albedo, texture(info.NormalImage), modelKd)
		if info.Name != "" {
			m.Name = info.Name
		}
		materials[i] = s.AddMaterial(m)
	}

	lo, hi := math3d.V3(math.Inf(1), math.Inf(1), math.Inf(1)), math3d.V3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, mesh := range model.Meshes {
		mesh.CalculateBounds()
		lo, hi = lo.Min(mesh.BoundsMin), hi.Max(mesh.BoundsMax)
	}
	s.base = fit(lo, hi)

	for _, mesh := range model.Meshes {
		if mi := mesh.Material; mi >= 0 && mi < len(materials) {
			tint(mesh, model.Materials[mi])
			mesh.Material = materials[mi]
		} else {
			mesh.Material = DefaultMaterial
		}
		if err := s.AddMesh(mesh); err != nil {
			return nil, err
		}
	}

	log.Info("model loaded",
		"meshes", len(s.meshes),
		"triangles", s.TriangleCount(),
		"materials", len(materials),
		"textures", s.TextureCount())
	return s, nil
}

// fit returns the transform that centers [lo, hi] on the origin and
// scales its largest side to modelExtent.
func fit(lo, hi math3d.Vec3) math3d.Mat4 {
	center := lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo)
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 || math.IsInf(maxDim, 0) {
		return math3d.Translate(center.Negate())
	}
	scale := modelExtent / maxDim
	return math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(center.Negate()))
}

// tint multiplies vertex colors by the base color factor of untextured
// materials.
func tint(mesh *models.Mesh, info models.MaterialInfo) {
	if info.BaseColorImage >= 0 {
		return
	}
	factor := math3d.V3(info.BaseColor[0], info.BaseColor[1], info.BaseColor[2])
	for i := range mesh.Vertices {
		mesh.Vertices[i].Color = mesh.Vertices[i].Color.Mul(factor)
	}
}
