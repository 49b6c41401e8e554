package render

import (
	"log/slog"

	"github.com/gsingh93/game-engine/pkg/math3d"
	"github.com/gsingh93/game-engine/pkg/models"
)

// TextRun is a drawable block of text rendered as one glyph quad per
// character in screen space. Layout uses the glyph cache's metrics:
// the pen advances by each glyph's advance width, and quads are offset by
// the glyph bearings around the baseline. Newlines start a new line.
//
// The run holds glyph keys only; the renderer resolves them to mask
// textures at draw time through the same cache the layout consulted, so
// every glyph is rasterized exactly once.
type TextRun struct {
	glyphs *GlyphCache
	font   string
	size   int
	text   string
	origin math3d.Vec2 // baseline origin of the first line, in pixels
	color  Color

	mesh  *models.Mesh
	deps  []ResourceKey
	stale bool

	logger *slog.Logger
}

// NewTextRun creates a text drawable using the given font name and pixel
// size, positioned with its first baseline at origin.
func NewTextRun(glyphs *GlyphCache, fontName string, size int, text string) *TextRun {
	return &TextRun{
		glyphs: glyphs,
		font:   fontName,
		size:   size,
		text:   text,
		color:  ColorWhite,
		mesh:   models.NewMesh("text"),
		stale:  true,
		logger: slog.Default(),
	}
}

// SetText replaces the run's text, triggering a relayout on the next
// Geometry call if it changed.
func (t *TextRun) SetText(text string) {
	if text == t.text {
		return
	}
	t.text = text
	t.stale = true
}

// SetOrigin positions the first baseline, in pixels from the top left.
func (t *TextRun) SetOrigin(x, y float64) {
	t.origin = math3d.V2(x, y)
}

// SetColor sets the text color; glyph masks are modulated by it.
func (t *TextRun) SetColor(c Color) {
	t.color = c
}

// Text returns the current text.
func (t *TextRun) Text() string { return t.text }

// layout rebuilds the quad mesh and the dependency list from the cached
// glyph metrics. Quads are positioned relative to the baseline origin;
// screen Y grows downward.
func (t *TextRun) layout() {
	t.mesh.Vertices = t.mesh.Vertices[:0]
	t.mesh.Indices = t.mesh.Indices[:0]
	t.mesh.Ranges = t.mesh.Ranges[:0]
	t.deps = t.deps[:0]

	lineHeight, err := t.glyphs.LineHeight(t.font, t.size)
	if err != nil {
		lineHeight = float64(t.size) * 6 / 5
	}

	var penX, baseline float64
	for _, r := range t.text {
		if r == '\n' {
			penX = 0
			baseline += lineHeight
			continue
		}

		key := GlyphKey{Font: t.font, Rune: r, Size: t.size}
		metrics, err := t.glyphs.Metrics(key)
		if err != nil {
			t.logger.Debug("text layout: glyph unavailable", "rune", r, "err", err)
			continue
		}

		if metrics.Width > 0 && metrics.Height > 0 {
			x0 := penX + metrics.BearingX
			y0 := baseline - metrics.BearingY
			x1 := x0 + float64(metrics.Width)
			y1 := y0 + float64(metrics.Height)

			base := len(t.mesh.Vertices)
			// V=0 samples the bottom of the mask, so the top vertices get
			// V=1.
			t.mesh.Vertices = append(t.mesh.Vertices,
				models.Vertex{Position: math3d.V3(x0, y0, 0), UV: math3d.V2(0, 1)},
				models.Vertex{Position: math3d.V3(x1, y0, 0), UV: math3d.V2(1, 1)},
				models.Vertex{Position: math3d.V3(x1, y1, 0), UV: math3d.V2(1, 0)},
				models.Vertex{Position: math3d.V3(x0, y1, 0), UV: math3d.V2(0, 0)},
			)
			start := len(t.mesh.Indices)
			t.mesh.Indices = append(t.mesh.Indices,
				base, base+1, base+2,
				base, base+2, base+3,
			)
			t.mesh.Ranges = append(t.mesh.Ranges, models.Range{
				Start:    start,
				Count:    6,
				Resource: len(t.deps),
			})
			t.deps = append(t.deps, key)
		}

		penX += metrics.Advance
	}

	t.mesh.MarkDirty()
	t.stale = false
}

// Geometry returns the quad mesh, relaying out only when the text changed.
func (t *TextRun) Geometry() *models.Mesh {
	if t.stale {
		t.layout()
	}
	return t.mesh
}

// Transform translates the run to its screen origin.
func (t *TextRun) Transform() math3d.Mat4 {
	return math3d.Translate(math3d.V3(t.origin.X, t.origin.Y, 0))
}

// Update is a no-op; text changes come through SetText.
func (t *TextRun) Update(dt float64) {}

// ResourceDeps declares one glyph key per laid-out quad, in range order.
func (t *TextRun) ResourceDeps() []ResourceKey {
	if t.stale {
		t.layout()
	}
	return t.deps
}

// Program returns the screen-space text program.
func (t *TextRun) Program() string { return ProgramText }

// Color returns the text color.
func (t *TextRun) Color() Color { return t.color }
