package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"

	"github.com/taigrr/softras/pkg/math3d"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Sample is the result of a texture lookup. OK is false when no texture
// was bound, which callers resolve with Or.
type Sample struct {
	Color math3d.Vec3
	OK    bool
}

// Or returns the sampled color, or fallback when nothing was sampled.
func (s Sample) Or(fallback math3d.Vec3) math3d.Vec3 {
	if s.OK {
		return s.Color
	}
	return fallback
}

// Texture holds a 2D image for texture mapping. Row 0 is the top of the
// image, matching UV (0, 0).
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color    // Row-major pixel data
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Pixels:     make([]Color, width*height),
		WrapU:      WrapRepeat,
		WrapV:      WrapRepeat,
		FilterMode: FilterNearest,
	}
}

// LoadTexture loads a texture from a PNG, JPEG or BMP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image of any color model.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return textureFromRGBA(rgba)
}

func textureFromRGBA(img *image.RGBA) *Texture {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	tex := NewTexture(width, height)
	for y := range height {
		row := img.Pix[y*img.Stride:]
		for x := range width {
			i := x * 4
			tex.Pixels[y*width+x] = Color{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]}
		}
	}
	return tex
}

// Downscale returns a copy no larger than maxSize on either side, keeping
// the aspect ratio. Textures already within bounds are returned as is.
func (t *Texture) Downscale(maxSize int) *Texture {
	if maxSize <= 0 || (t.Width <= maxSize && t.Height <= maxSize) {
		return t
	}

	scale := float64(maxSize) / float64(max(t.Width, t.Height))
	w := max(1, int(float64(t.Width)*scale))
	h := max(1, int(float64(t.Height)*scale))

	src := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		src.SetRGBA(i%t.Width, i/t.Width, c)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := textureFromRGBA(dst)
	out.WrapU, out.WrapV, out.FilterMode = t.WrapU, t.WrapV, t.FilterMode
	return out
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			cx := x / checkSize
			cy := y / checkSize
			if (cx+cy)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewUVGridTexture creates a checkerboard whose cells are tinted by their
// UV position, red growing along U and green along V. It stands in for an
// albedo image when none is configured.
func NewUVGridTexture(size, cells int) *Texture {
	tex := NewTexture(size, size)
	cell := max(1, size/cells)
	for y := range size {
		for x := range size {
			u := float64(x) / float64(size)
			v := float64(y) / float64(size)
			shade := 0.55
			if (x/cell+y/cell)%2 == 0 {
				shade = 1
			}
			tex.SetPixel(x, y, ToColor(math3d.V3(u*shade, v*shade, 0.6*shade)))
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at uv. Repeat wrapping takes the fractional
// part, so negative coordinates wrap too. A nil or empty texture yields
// a failed Sample.
func (t *Texture) Sample(uv math3d.Vec2) Sample {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return Sample{}
	}

	u := t.wrapCoord(uv.X, t.WrapU)
	v := t.wrapCoord(uv.Y, t.WrapV)

	switch t.FilterMode {
	case FilterBilinear:
		return Sample{Color: t.sampleBilinear(u, v), OK: true}
	default:
		return Sample{Color: FromColor(t.sampleNearest(u, v)), OK: true}
	}
}

// wrapCoord applies the wrap mode to a coordinate.
func (t *Texture) wrapCoord(coord float64, mode WrapMode) float64 {
	switch mode {
	case WrapRepeat:
		coord = coord - math.Floor(coord) // fmod to [0,1)
	case WrapClamp:
		coord = math.Max(0, math.Min(1, coord))
	}
	return coord
}

// sampleNearest returns the nearest pixel.
func (t *Texture) sampleNearest(u, v float64) Color {
	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))

	// Clamp to valid range
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}

	return t.GetPixel(x, y)
}

// sampleBilinear returns the bilinearly interpolated color.
func (t *Texture) sampleBilinear(u, v float64) math3d.Vec3 {
	// Convert to pixel coordinates
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := x0 + 1
	y1 := y0 + 1

	// Fractional parts
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x0 = t.wrapPixelCoord(x0, t.Width, t.WrapU)
	x1 = t.wrapPixelCoord(x1, t.Width, t.WrapU)
	y0 = t.wrapPixelCoord(y0, t.Height, t.WrapV)
	y1 = t.wrapPixelCoord(y1, t.Height, t.WrapV)

	c00 := FromColor(t.GetPixel(x0, y0))
	c10 := FromColor(t.GetPixel(x1, y0))
	c01 := FromColor(t.GetPixel(x0, y1))
	c11 := FromColor(t.GetPixel(x1, y1))

	top := lerp3(c00, c10, tx)
	bot := lerp3(c01, c11, tx)
	return lerp3(top, bot, ty)
}

// wrapPixelCoord wraps a pixel coordinate.
func (t *Texture) wrapPixelCoord(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x = x % size
		if x < 0 {
			x += size
		}
	case WrapClamp:
		if x < 0 {
			x = 0
		} else if x >= size {
			x = size - 1
		}
	}
	return x
}

func lerp3(a, b math3d.Vec3, t float64) math3d.Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}
