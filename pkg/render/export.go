package render

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrUnsupportedImageFormat is returned by SaveImage for an unknown extension.
var ErrUnsupportedImageFormat = errors.New("unsupported image format")

// SavePNG writes the framebuffer to a PNG file.
func SavePNG(fb *Framebuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// SaveBMP writes the framebuffer to an uncompressed BMP file.
func SaveBMP(fb *Framebuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := bmp.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode bmp: %w", err)
	}
	return f.Close()
}

// SaveImage writes the framebuffer to path, choosing the encoder from
// the extension (.png or .bmp).
func SaveImage(fb *Framebuffer, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return SavePNG(fb, path)
	case ".bmp":
		return SaveBMP(fb, path)
	default:
		return fmt.Errorf("%q: %w", ext, ErrUnsupportedImageFormat)
	}
}
