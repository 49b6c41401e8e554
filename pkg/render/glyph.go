package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gsingh93/game-engine/pkg/cache"
)

// GlyphKey identifies one rasterized glyph: font name, code point, and
// pixel size. Equal keys always refer to the same bitmap and metrics.
type GlyphKey struct {
	Font string
	Rune rune
	Size int
}

func (GlyphKey) resourceKey() {}

// GlyphMetrics is the layout data for one glyph. Advance moves the pen to
// the next glyph; the bearings offset the bitmap from the pen position
// (BearingY is the ascent of the bitmap above the baseline). Width and
// Height match the rasterized bitmap, so texture coordinates built from
// them line up with the uploaded mask.
type GlyphMetrics struct {
	Advance  float64
	BearingX float64
	BearingY float64
	Width    int
	Height   int
}

// GlyphEntry is a cached glyph: the uploaded alpha-mask texture plus its
// metrics.
type GlyphEntry struct {
	Handle  Handle
	Metrics GlyphMetrics
}

type faceKey struct {
	font string
	size int
}

// GlyphCache rasterizes glyphs on first request and caches the uploaded
// mask and metrics. Faces are a nested resource kept in their own table,
// so a glyph load never re-enters the glyph cache itself.
type GlyphCache struct {
	device Device
	fonts  *FontLibrary
	faces  map[faceKey]font.Face
	cache  *cache.Cache[GlyphKey, *GlyphEntry]
	logger *slog.Logger
}

// NewGlyphCache creates a glyph cache rasterizing from fonts and uploading
// through device.
func NewGlyphCache(device Device, fonts *FontLibrary) *GlyphCache {
	gc := &GlyphCache{
		device: device,
		fonts:  fonts,
		faces:  make(map[faceKey]font.Face),
		logger: slog.Default(),
	}
	gc.cache = cache.New(gc.load, func(e *GlyphEntry) {
		device.FreeTexture(e.Handle)
	})
	return gc
}

func (gc *GlyphCache) face(name string, size int) (font.Face, error) {
	k := faceKey{font: name, size: size}
	if f, ok := gc.faces[k]; ok {
		return f, nil
	}

	sf, ok := gc.fonts.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("font %q not registered", name)
	}
	f, err := opentype.NewFace(sf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("face %q at %dpx: %w", name, size, err)
	}
	gc.faces[k] = f
	return f, nil
}

func (gc *GlyphCache) load(key GlyphKey) (*GlyphEntry, error) {
	face, err := gc.face(key.Font, key.Size)
	if err != nil {
		return nil, err
	}

	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, key.Rune)
	if !ok {
		// The font lacks this code point. Substitute a hollow box so text
		// still lays out instead of crashing or dropping the glyph.
		gc.logger.Debug("missing glyph, using fallback",
			"font", key.Font, "rune", key.Rune, "size", key.Size)
		return gc.fallback(key)
	}

	w, h := dr.Dx(), dr.Dy()
	bitmap := image.NewAlpha(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if w > 0 && h > 0 {
		draw.Draw(bitmap, bitmap.Bounds(), mask, maskp, draw.Src)
	}

	tex := TextureFromAlpha(bitmap)
	handle, err := gc.device.UploadTexture(tex)
	if err != nil {
		return nil, fmt.Errorf("upload glyph mask: %w", err)
	}

	return &GlyphEntry{
		Handle: handle,
		Metrics: GlyphMetrics{
			Advance:  fixedToFloat(advance),
			BearingX: float64(dr.Min.X),
			BearingY: float64(-dr.Min.Y),
			Width:    w,
			Height:   h,
		},
	}, nil
}

// fallback builds the placeholder glyph: a hollow box on the baseline with
// half an em of advance.
func (gc *GlyphCache) fallback(key GlyphKey) (*GlyphEntry, error) {
	w := max(key.Size/2, 2)
	h := max(key.Size*3/4, 2)

	bitmap := image.NewAlpha(image.Rect(0, 0, w, h))
	opaque := color.Alpha{A: 255}
	for x := range w {
		bitmap.SetAlpha(x, 0, opaque)
		bitmap.SetAlpha(x, h-1, opaque)
	}
	for y := range h {
		bitmap.SetAlpha(0, y, opaque)
		bitmap.SetAlpha(w-1, y, opaque)
	}

	handle, err := gc.device.UploadTexture(TextureFromAlpha(bitmap))
	if err != nil {
		return nil, fmt.Errorf("upload fallback glyph: %w", err)
	}
	return &GlyphEntry{
		Handle: handle,
		Metrics: GlyphMetrics{
			Advance:  float64(w) + 1,
			BearingX: 0,
			BearingY: float64(h),
			Width:    w,
			Height:   h,
		},
	}, nil
}

// Get returns the glyph for key, rasterizing and uploading it on first
// request.
func (gc *GlyphCache) Get(key GlyphKey) (*GlyphEntry, error) {
	return gc.cache.GetOrCreate(key)
}

// Metrics returns the layout metrics for key without re-rasterizing on
// repeated calls. Metrics for a given key are stable for the lifetime of
// the cache entry.
func (gc *GlyphCache) Metrics(key GlyphKey) (GlyphMetrics, error) {
	entry, err := gc.cache.GetOrCreate(key)
	if err != nil {
		return GlyphMetrics{}, err
	}
	return entry.Metrics, nil
}

// LineHeight returns the face line height in pixels for a font and size.
func (gc *GlyphCache) LineHeight(fontName string, size int) (float64, error) {
	face, err := gc.face(fontName, size)
	if err != nil {
		return 0, err
	}
	return fixedToFloat(face.Metrics().Height), nil
}

// Invalidate removes and frees the entry for key, if present.
func (gc *GlyphCache) Invalidate(key GlyphKey) {
	gc.cache.Invalidate(key)
}

// Clear frees every cached glyph and drops the face table.
func (gc *GlyphCache) Clear() {
	gc.cache.Clear()
	gc.faces = make(map[faceKey]font.Face)
}

// Stats exposes the underlying cache counters.
func (gc *GlyphCache) Stats() cache.Stats {
	return gc.cache.Stats()
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
