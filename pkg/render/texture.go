package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log/slog"
	"math"
	"os"

	"github.com/gsingh93/game-engine/pkg/cache"
)

// Texture holds a CPU-side pixel buffer prior to (or mirroring) its device
// upload. Sampling uses repeat wrapping and nearest filtering, with V=0 at
// the bottom of the image.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // row-major, row 0 at the top
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage converts any image.Image into a Texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return tex
}

// TextureFromAlpha converts a single-channel bitmap into an alpha-only
// texture, as used for glyph masks.
func TextureFromAlpha(img *image.Alpha) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			a := img.AlphaAt(bounds.Min.X+x, bounds.Min.Y+y).A
			tex.SetPixel(x, y, Color{R: 255, G: 255, B: 255, A: a})
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if ((x/checkSize)+(y/checkSize))%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradientTexture creates a horizontal gradient texture.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			t := float64(x) / float64(width-1)
			tex.SetPixel(x, y, lerpColor(left, right, t))
		}
	}
	return tex
}

// SetPixel sets a pixel; out-of-bounds writes are dropped.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// Sample samples the texture at UV coordinates. Coordinates outside [0,1]
// repeat; V=0 addresses the bottom row.
func (t *Texture) Sample(u, v float64) Color {
	u = u - math.Floor(u)
	v = v - math.Floor(v)

	x := int(u * float64(t.Width))
	y := int((1 - v) * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.Pixels[y*t.Width+x]
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// TextureKey identifies a texture by its source: a file path, or for
// procedurally generated images an empty path plus a variant tag naming
// the generator. Two distinct logical textures must never share a key.
type TextureKey struct {
	Path    string
	Variant string
}

func (TextureKey) resourceKey() {}

// Procedural variant tags understood by the texture loader.
const (
	VariantChecker  = "checker"
	VariantGradient = "gradient"
)

// TextureEntry is a cached, device-resident texture.
type TextureEntry struct {
	Handle Handle
	Width  int
	Height int
}

// TextureCache resolves TextureKeys to uploaded textures. Each key is
// decoded and uploaded at most once; entries live until invalidated or the
// cache is cleared.
type TextureCache struct {
	device      Device
	cache       *cache.Cache[TextureKey, *TextureEntry]
	placeholder *TextureEntry
	logger      *slog.Logger
}

// NewTextureCache creates a texture cache uploading through device.
func NewTextureCache(device Device) *TextureCache {
	tc := &TextureCache{
		device: device,
		logger: slog.Default(),
	}
	tc.cache = cache.New(tc.load, func(e *TextureEntry) {
		device.FreeTexture(e.Handle)
	})
	return tc
}

func (tc *TextureCache) load(key TextureKey) (*TextureEntry, error) {
	var tex *Texture
	switch {
	case key.Path != "":
		f, err := os.Open(key.Path)
		if err != nil {
			return nil, fmt.Errorf("open texture: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode texture: %w", err)
		}
		tex = TextureFromImage(img)

	case key.Variant == VariantChecker:
		tex = NewCheckerTexture(64, 64, 8, RGB(200, 200, 200), RGB(100, 100, 100))

	case key.Variant == VariantGradient:
		tex = NewGradientTexture(64, 64, ColorBlack, ColorWhite)

	default:
		return nil, fmt.Errorf("texture key %+v names no source", key)
	}

	h, err := tc.device.UploadTexture(tex)
	if err != nil {
		return nil, fmt.Errorf("upload texture: %w", err)
	}
	tc.logger.Debug("texture uploaded",
		"path", key.Path, "variant", key.Variant,
		"width", tex.Width, "height", tex.Height)
	return &TextureEntry{Handle: h, Width: tex.Width, Height: tex.Height}, nil
}

// Get returns the texture for key, loading and uploading it on first use.
func (tc *TextureCache) Get(key TextureKey) (*TextureEntry, error) {
	return tc.cache.GetOrCreate(key)
}

// GetOrPlaceholder returns the texture for key, substituting the checker
// placeholder when the source fails to load so the frame is never aborted.
func (tc *TextureCache) GetOrPlaceholder(key TextureKey) *TextureEntry {
	entry, err := tc.cache.GetOrCreate(key)
	if err != nil {
		tc.logger.Debug("texture load failed, using placeholder", "key", key, "err", err)
		return tc.Placeholder()
	}
	return entry
}

// Placeholder returns the shared fallback texture, uploading it on first
// use.
func (tc *TextureCache) Placeholder() *TextureEntry {
	if tc.placeholder == nil {
		tex := NewCheckerTexture(16, 16, 4, RGB(255, 0, 255), ColorBlack)
		h, err := tc.device.UploadTexture(tex)
		if err != nil {
			// The software device never fails uploads; a real backend that
			// cannot upload a 16x16 placeholder is unusable anyway.
			panic(fmt.Sprintf("render: placeholder upload failed: %v", err))
		}
		tc.placeholder = &TextureEntry{Handle: h, Width: tex.Width, Height: tex.Height}
	}
	return tc.placeholder
}

// Invalidate removes and frees the entry for key, if present.
func (tc *TextureCache) Invalidate(key TextureKey) {
	tc.cache.Invalidate(key)
}

// Clear frees every cached texture, including the placeholder.
func (tc *TextureCache) Clear() {
	tc.cache.Clear()
	if tc.placeholder != nil {
		tc.device.FreeTexture(tc.placeholder.Handle)
		tc.placeholder = nil
	}
}

// Stats exposes the underlying cache counters.
func (tc *TextureCache) Stats() cache.Stats {
	return tc.cache.Stats()
}
