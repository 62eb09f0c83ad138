// Package config loads the renderer settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/render"
	"github.com/taigrr/softras/pkg/scene"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every setting the CLI can also take as a flag.
type Config struct {
	// Offline frame size. The interactive viewer sizes to the terminal.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	ClearColor  [3]uint8   `yaml:"clear_color"`
	Mode        string     `yaml:"mode"`
	Shading     string     `yaml:"shading"`
	DepthPolicy string     `yaml:"depth_policy"`
	DepthRange  [2]float64 `yaml:"depth_range"`

	// Workers is the rasterizer concurrency. Zero uses every CPU.
	Workers int `yaml:"workers"`

	FOV          float64    `yaml:"fov"`
	CameraOrigin [3]float64 `yaml:"camera_origin"`

	LightDirection [3]float64 `yaml:"light_direction"`
	Ambient        float64    `yaml:"ambient"`
	NormalMapping  bool       `yaml:"normal_mapping"`

	// Rotate false starts every scene with its spin stopped.
	Rotate         bool   `yaml:"rotate"`
	Scene          string `yaml:"scene"`
	Model          string `yaml:"model,omitempty"`
	Texture        string `yaml:"texture,omitempty"`
	MaxTextureSize int    `yaml:"max_texture_size"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	light := render.DefaultLighting()
	so := scene.DefaultOptions()
	ro := render.DefaultOptions()
	return Config{
		Width:          640,
		Height:         480,
		ClearColor:     [3]uint8{ro.ClearColor.R, ro.ClearColor.G, ro.ClearColor.B},
		Mode:           ro.Mode.String(),
		Shading:        ro.Shading.String(),
		DepthPolicy:    ro.DepthPolicy.String(),
		DepthRange:     [2]float64{ro.DepthNear, ro.DepthFar},
		FOV:            so.FOV,
		CameraOrigin:   [3]float64{so.Origin.X, so.Origin.Y, so.Origin.Z},
		LightDirection: [3]float64{0.577, -0.577, 0.577},
		Ambient:        light.Ambient.X,
		NormalMapping:  light.NormalMapping,
		Rotate:         true,
		Scene:          scene.SceneList,
		MaxTextureSize: so.MaxTextureSize,
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate reports every bad field at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Width <= 0 || c.Height <= 0 {
		bad("size %dx%d must be positive", c.Width, c.Height)
	}
	if _, ok := render.ParseRenderMode(c.Mode); !ok {
		bad("unknown mode %q", c.Mode)
	}
	if _, ok := render.ParseShadingMode(c.Shading); !ok {
		bad("unknown shading %q", c.Shading)
	}
	if _, ok := render.ParseDepthPolicy(c.DepthPolicy); !ok {
		bad("unknown depth policy %q", c.DepthPolicy)
	}
	if c.DepthRange[0] >= c.DepthRange[1] {
		bad("depth range [%g, %g] is empty", c.DepthRange[0], c.DepthRange[1])
	}
	if c.Workers < 0 {
		bad("workers %d is negative", c.Workers)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		bad("fov %g must be within (0, 180) degrees", c.FOV)
	}
	if vec(c.LightDirection).Len() == 0 {
		bad("light direction is zero")
	}
	if c.Ambient < 0 {
		bad("ambient %g is negative", c.Ambient)
	}
	if !slices.Contains(scene.Names(), c.Scene) {
		bad("unknown scene %q", c.Scene)
	}
	if c.Scene == scene.SceneModel && c.Model == "" {
		bad("scene %q needs a model path", c.Scene)
	}
	if c.MaxTextureSize < 0 {
		bad("max texture size %d is negative", c.MaxTextureSize)
	}
	return errors.Join(errs...)
}

// Threads resolves Workers, mapping zero to the CPU count.
func (c Config) Threads() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// RenderOptions converts c for render.NewRenderer. c should be valid;
// unparsable names keep the renderer defaults.
func (c Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	if m, ok := render.ParseRenderMode(c.Mode); ok {
		opts.Mode = m
	}
	if m, ok := render.ParseShadingMode(c.Shading); ok {
		opts.Shading = m
	}
	if p, ok := render.ParseDepthPolicy(c.DepthPolicy); ok {
		opts.DepthPolicy = p
	}
	opts.DepthNear, opts.DepthFar = c.DepthRange[0], c.DepthRange[1]
	opts.Workers = c.Threads()
	opts.ClearColor = render.RGB(c.ClearColor[0], c.ClearColor[1], c.ClearColor[2])
	opts.Lighting = render.Lighting{
		Direction:     vec(c.LightDirection).Normalize(),
		Ambient:       math3d.V3(c.Ambient, c.Ambient, c.Ambient),
		NormalMapping: c.NormalMapping,
	}
	return opts
}

// SceneOptions converts c for scene.Build, loading the texture override
// if one is set. aspect is the viewport width over height.
func (c Config) SceneOptions(aspect float64) (scene.Options, error) {
	opts := scene.DefaultOptions()
	opts.FOV = c.FOV
	opts.Aspect = aspect
	opts.Origin = vec(c.CameraOrigin)
	opts.ModelPath = c.Model
	opts.MaxTextureSize = c.MaxTextureSize

	if c.Texture != "" {
		tex, err := render.LoadTexture(c.Texture)
		if err != nil {
			return opts, err
		}
		opts.Texture = tex
		opts.Albedo = tex
	}
	return opts, nil
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}
