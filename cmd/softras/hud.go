package main

import (
	"fmt"
	"time"

	"github.com/taigrr/softras/pkg/render"
	"github.com/taigrr/softras/pkg/scene"
)

var (
	hudFg     = render.RGB(230, 230, 230)
	hudAccent = render.RGB(120, 220, 120)
	hudBg     = render.RGB(20, 20, 28)
)

// HUD renders the status lines over the top and bottom terminal rows
type HUD struct {
	Visible bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
	message   string
	msgUntil  time.Time
}

// NewHUD creates a visible HUD
func NewHUD() *HUD {
	return &HUD{Visible: true, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame). It reports
// whether a new once-per-second reading is available.
func (h *HUD) UpdateFPS() bool {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed < time.Second {
		return false
	}
	h.fps = float64(h.fpsFrames) / elapsed.Seconds()
	h.fpsFrames = 0
	h.fpsTime = time.Now()
	return true
}

// FPS returns the last reading.
func (h *HUD) FPS() float64 { return h.fps }

// Flash shows msg on the bottom row for a few seconds.
func (h *HUD) Flash(msg string) {
	h.message = msg
	h.msgUntil = time.Now().Add(3 * time.Second)
}

// Render draws the HUD rows onto the terminal.
func (h *HUD) Render(tr *render.TerminalRenderer, rows int, s *scene.Scene, r *render.Renderer) {
	if time.Now().Before(h.msgUntil) {
		tr.Text(0, rows-1, " "+h.message+" ", hudAccent, hudBg)
	}
	if !h.Visible {
		return
	}

	stats := r.Stats()
	tr.Text(0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), hudAccent, hudBg)
	status := fmt.Sprintf(" %s | %s %s | depth %s | %d/%d tris | %d workers ",
		s.Name,
		r.Mode(), r.Shading(), r.Options().DepthPolicy,
		stats.Drawn, stats.Triangles,
		r.Options().Workers)
	tr.Text(9, 0, status, hudFg, hudBg)
}
