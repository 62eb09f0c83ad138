package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Presenter is a cell screen that can present what was drawn on it.
// *uv.Terminal satisfies it.
type Presenter interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents a framebuffer on a terminal using half-block
// cells, two framebuffer rows per terminal row.
type TerminalRenderer struct {
	screen     Presenter
	cols, rows int
}

// NewTerminalRenderer creates a presenter for a cols × rows terminal.
func NewTerminalRenderer(screen Presenter, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{
		screen: screen,
		cols:   max(cols, 1),
		rows:   max(rows, 1),
	}
}

// FramebufferSize returns the framebuffer size that fills the terminal.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Render draws fb onto the terminal cells. Nothing is shown until Flush.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.screen, uv.Rect(0, 0, t.cols, t.rows))
}

// Text writes a single line of text at cell (col, row), clipped to the
// terminal width.
func (t *TerminalRenderer) Text(col, row int, text string, fg, bg Color) {
	if row < 0 || row >= t.rows {
		return
	}
	style := uv.Style{Fg: rgbaToColor(fg), Bg: rgbaToColor(bg)}
	for _, r := range text {
		if col >= t.cols {
			return
		}
		if col >= 0 {
			t.screen.SetCell(col, row, &uv.Cell{Content: string(r), Width: 1, Style: style})
		}
		col++
	}
}

// Flush presents the drawn cells.
func (t *TerminalRenderer) Flush() error {
	return t.screen.Display()
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ with fg = top pixel, bg = bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to the color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
