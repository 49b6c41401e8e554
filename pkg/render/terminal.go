package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells. Each cell packs two
// vertically stacked pixels using the upper half block: the foreground is
// the top pixel, the background the bottom one. The framebuffer height
// should be twice the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
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

func rgbaToColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalPresenter drives a terminal as the engine's display: it owns the
// cell dimensions and flushes framebuffers to the screen.
type TerminalPresenter struct {
	term   *uv.Terminal
	width  int // terminal columns
	height int // terminal rows
}

// NewTerminalPresenter creates a presenter for a terminal of the given
// cell dimensions.
func NewTerminalPresenter(term *uv.Terminal, width, height int) *TerminalPresenter {
	return &TerminalPresenter{term: term, width: width, height: height}
}

// FramebufferSize returns the pixel dimensions a framebuffer must have to
// fill this terminal: one pixel per column, two per row.
func (p *TerminalPresenter) FramebufferSize() (width, height int) {
	return p.width, p.height * 2
}

// Present draws the framebuffer to the terminal and flushes it.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	fb.Draw(p.term, uv.Rect(0, 0, p.width, p.height))
	return p.term.Display()
}
