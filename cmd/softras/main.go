// softras - software triangle rasterizer
// Renders the built-in scenes or a glTF model in the terminal, or to a
// sequence of image files.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Q/E         - Move down/up
//	Arrows      - Look around
//	F3, Tab     - Next scene
//	F4, M       - Cycle render mode (texture, depth, wireframe)
//	F5, R       - Toggle mesh rotation
//	F6, N       - Toggle normal mapping
//	F7, L       - Cycle shading (observed area, diffuse, specular, combined)
//	P           - Toggle depth policy
//	X           - Save a BMP screenshot
//	I           - Toggle HUD
//	Esc         - Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/taigrr/softras/pkg/config"
	"github.com/taigrr/softras/pkg/render"
	"github.com/taigrr/softras/pkg/scene"
)

var (
	configPath  = flag.String("config", "", "Path to a YAML config file")
	dumpConfig  = flag.Bool("dump-config", false, "Print the effective config as YAML and exit")
	sceneName   = flag.String("scene", "", "Initial scene ("+strings.Join(scene.Names(), ", ")+")")
	modelPath   = flag.String("model", "", "glTF/GLB file for the model scene")
	texturePath = flag.String("texture", "", "Albedo texture override (PNG/JPG/BMP)")
	mode        = flag.String("mode", "", "Render mode (texture, depth, wireframe)")
	shading     = flag.String("shading", "", "Shading (combined, observed-area, diffuse, specular)")
	depthPolicy = flag.String("depth", "", "Depth test (less, less-equal)")
	workers     = flag.Int("workers", -1, "Rasterizer workers, 0 for every CPU")
	fov         = flag.Float64("fov", 0, "Vertical field of view in degrees")
	noRotate    = flag.Bool("no-rotate", false, "Start with mesh rotation stopped")
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	frames      = flag.Int("frames", 0, "Render this many frames to -out instead of the terminal")
	outDir      = flag.String("out", "frames", "Output directory for -frames and screenshots")
	format      = flag.String("format", "png", "Offline frame format (png, bmp)")
	frameWidth  = flag.Int("width", 0, "Offline frame width")
	frameHeight = flag.Int("height", 0, "Offline frame height")
	verbose     = flag.Bool("v", false, "Debug logging")
	logPath     = flag.String("log", "", "Write logs to this file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softras - software triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softras [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Down/up\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Look around\n")
		fmt.Fprintf(os.Stderr, "  F3, Tab     - Next scene\n")
		fmt.Fprintf(os.Stderr, "  F4, M       - Render mode\n")
		fmt.Fprintf(os.Stderr, "  F5, R       - Toggle rotation\n")
		fmt.Fprintf(os.Stderr, "  F6, N       - Toggle normal mapping\n")
		fmt.Fprintf(os.Stderr, "  F7, L       - Shading mode\n")
		fmt.Fprintf(os.Stderr, "  P           - Depth policy\n")
		fmt.Fprintf(os.Stderr, "  X           - Screenshot\n")
		fmt.Fprintf(os.Stderr, "  I           - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	closeLog, err := setupLogging(*frames > 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if *frames > 0 {
		err = runOffline(cfg, *frames)
	} else {
		err = runInteractive(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// loadConfig reads -config (or the defaults) and applies the flags that
// were set on the command line.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "model":
			cfg.Model = *modelPath
		case "texture":
			cfg.Texture = *texturePath
		case "mode":
			cfg.Mode = *mode
		case "shading":
			cfg.Shading = *shading
		case "depth":
			cfg.DepthPolicy = *depthPolicy
		case "workers":
			cfg.Workers = *workers
		case "fov":
			cfg.FOV = *fov
		case "no-rotate":
			cfg.Rotate = !*noRotate
		case "width":
			cfg.Width = *frameWidth
		case "height":
			cfg.Height = *frameHeight
		}
	})

	// A positional model opens straight into the model scene
	if flag.NArg() > 0 {
		cfg.Model = flag.Arg(0)
		if !isFlagSet("scene") {
			cfg.Scene = scene.SceneModel
		}
	}

	return cfg, cfg.Validate()
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// setupLogging installs the render logger. The terminal is the display in
// interactive mode, so logs only go to stderr offline.
func setupLogging(offline bool) (func(), error) {
	var w io.Writer
	closeLog := func() {}

	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeLog, fmt.Errorf("open log: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	case offline && *verbose:
		w = os.Stderr
	default:
		return closeLog, nil
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeLog, nil
}

// buildScenes creates every scene the config allows and selects the
// configured one.
func buildScenes(cfg config.Config, aspect float64) (*scene.Manager, error) {
	opts, err := cfg.SceneOptions(aspect)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	manager, err := scene.BuildAll(scene.Names(), opts)
	if err != nil {
		return nil, err
	}
	if !cfg.Rotate {
		for range manager.Len() {
			manager.Next().Spin().Stop()
		}
	}
	if err := manager.Select(cfg.Scene); err != nil {
		return nil, err
	}
	return manager, nil
}
