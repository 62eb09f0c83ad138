package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softras/pkg/config"
	"github.com/taigrr/softras/pkg/render"
	"github.com/taigrr/softras/pkg/scene"
)

const (
	moveStep = 0.5  // World units per key press
	turnStep = 0.05 // Radians per key press
)

// viewer is the interactive state driven by terminal events.
type viewer struct {
	term     *uv.Terminal
	tr       *render.TerminalRenderer
	renderer *render.Renderer
	scenes   *scene.Manager
	hud      *HUD
	rows     int
	quit     func()
}

func runInteractive(cfg config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	tr := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := tr.FramebufferSize()

	scenes, err := buildScenes(cfg, float64(fbWidth)/float64(fbHeight))
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(fbWidth, fbHeight, nil, nil, cfg.RenderOptions())
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Events are handled on the render goroutine, between frames
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	v := &viewer{
		term:     term,
		tr:       tr,
		renderer: renderer,
		scenes:   scenes,
		hud:      NewHUD(),
		rows:     height,
		quit:     cancel,
	}

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	targetDuration := time.Second / time.Duration(max(*targetFPS, 1))
	lastFrame := time.Now()
	log := render.Logger()

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				cleanup()
				return nil
			case ev := <-events:
				v.handle(ev)
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		v.scenes.Update(dt)
		current := v.scenes.Current()
		v.renderer.Render(current)

		v.tr.Render(v.renderer.Framebuffer())
		if v.hud.UpdateFPS() {
			log.Debug("fps", "fps", v.hud.FPS(), "scene", current.Name, "stats", v.renderer.Stats())
		}
		v.hud.Render(v.tr, v.rows, current, v.renderer)
		if err := v.tr.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func (v *viewer) handle(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		cam := v.scenes.Current().Camera()
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			v.quit()
		case ev.MatchString("w"):
			cam.MoveForward(moveStep)
		case ev.MatchString("s"):
			cam.MoveForward(-moveStep)
		case ev.MatchString("a"):
			cam.MoveRight(-moveStep)
		case ev.MatchString("d"):
			cam.MoveRight(moveStep)
		case ev.MatchString("q"):
			cam.MoveUp(-moveStep)
		case ev.MatchString("e"):
			cam.MoveUp(moveStep)
		case ev.MatchString("up"):
			cam.Rotate(turnStep, 0)
		case ev.MatchString("down"):
			cam.Rotate(-turnStep, 0)
		case ev.MatchString("left"):
			cam.Rotate(0, -turnStep)
		case ev.MatchString("right"):
			cam.Rotate(0, turnStep)
		case ev.MatchString("f3", "tab"):
			v.hud.Flash("scene " + v.scenes.Next().Name)
		case ev.MatchString("f4", "m"):
			v.hud.Flash("mode " + v.renderer.CycleMode().String())
		case ev.MatchString("f5", "r"):
			v.hud.Flash(onOff("rotation", v.scenes.Current().ToggleRotation()))
		case ev.MatchString("f6", "n"):
			v.hud.Flash(onOff("normal mapping", v.renderer.ToggleNormalMapping()))
		case ev.MatchString("f7", "l"):
			v.hud.Flash("shading " + v.renderer.CycleShading().String())
		case ev.MatchString("p"):
			policy := render.DepthLess
			if v.renderer.Options().DepthPolicy == render.DepthLess {
				policy = render.DepthLessOrEqual
			}
			v.renderer.SetDepthPolicy(policy)
			v.hud.Flash("depth " + policy.String())
		case ev.MatchString("x"):
			v.screenshot()
		case ev.MatchString("i"):
			v.hud.Visible = !v.hud.Visible
		}
	}
}

func (v *viewer) resize(width, height int) {
	v.term.Erase()
	v.term.Resize(width, height)
	v.tr = render.NewTerminalRenderer(v.term, width, height)
	v.rows = height

	fbWidth, fbHeight := v.tr.FramebufferSize()
	if err := v.renderer.Resize(fbWidth, fbHeight); err != nil {
		render.Logger().Warn("resize", "error", err)
		return
	}
	v.scenes.SetAspect(float64(fbWidth) / float64(fbHeight))
}

// screenshot saves the color buffer as a BMP in the output directory.
func (v *viewer) screenshot() {
	log := render.Logger()
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error("screenshot", "error", err)
		v.hud.Flash("screenshot failed")
		return
	}
	name := fmt.Sprintf("screenshot-%s.bmp", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(*outDir, name)
	if err := render.SaveBMP(v.renderer.Framebuffer(), path); err != nil {
		log.Error("screenshot", "error", err)
		v.hud.Flash("screenshot failed")
		return
	}
	log.Info("screenshot saved", "path", path)
	v.hud.Flash("saved " + path)
}

func onOff(what string, on bool) string {
	if on {
		return what + " on"
	}
	return what + " off"
}
