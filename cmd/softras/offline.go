package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/taigrr/softras/pkg/config"
	"github.com/taigrr/softras/pkg/render"
)

// runOffline renders n frames of the configured scene at a fixed time
// step and writes each one to the output directory.
func runOffline(cfg config.Config, n int) error {
	if *format != "png" && *format != "bmp" {
		return fmt.Errorf("format %q: %w", *format, render.ErrUnsupportedImageFormat)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	manager, err := buildScenes(cfg, float64(cfg.Width)/float64(cfg.Height))
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(cfg.Width, cfg.Height, nil, nil, cfg.RenderOptions())
	if err != nil {
		return err
	}

	log := render.Logger().With("scene", manager.Current().Name)
	dt := 1 / float64(max(*targetFPS, 1))

	pb := progressbar.Default(int64(n), "rendering "+manager.Current().Name)
	defer pb.Close()

	var total render.FrameStats
	for i := range n {
		manager.Update(dt)
		stats := renderer.Render(manager.Current())
		total.Pixels += stats.Pixels
		total.Drawn += stats.Drawn

		path := filepath.Join(*outDir, fmt.Sprintf("frame-%04d.%s", i, *format))
		if err := renderer.SaveBufferToImage(path); err != nil {
			return err
		}
		pb.Add(1)
	}

	log.Info("frames written",
		"frames", n,
		"dir", *outDir,
		"triangles_drawn", total.Drawn,
		"pixels", total.Pixels)
	return nil
}
