package render

import (
	"fmt"
	"log/slog"

	"github.com/gsingh93/game-engine/pkg/models"
)

// FrameStats counts the work done by the last Frame call.
type FrameStats struct {
	Drawables    int
	DrawCalls    int
	DepsResolved int
}

// Renderer is the per-frame driver. It owns the camera, both resource
// caches, the program library, and the registered drawables; all of them
// are created at startup and torn down together by Close.
//
// Each frame it updates every drawable, resolves its declared resource
// keys through the appropriate cache, composes projection * view * model,
// and submits one draw call per mesh range, in registration order.
type Renderer struct {
	device    Device
	camera    *Camera
	textures  *TextureCache
	glyphs    *GlyphCache
	programs  *Library
	drawables []Drawable

	bindings map[*models.Mesh]meshBinding
	stats    FrameStats
	logger   *slog.Logger
}

type meshBinding struct {
	handle  Handle
	version int
}

// New creates a renderer drawing through device with the given camera.
// The caches and program library are constructed and owned here.
func New(device Device, camera *Camera) *Renderer {
	fonts := NewFontLibrary()
	return &Renderer{
		device:   device,
		camera:   camera,
		textures: NewTextureCache(device),
		glyphs:   NewGlyphCache(device, fonts),
		programs: NewLibrary(),
		bindings: make(map[*models.Mesh]meshBinding),
		logger:   slog.Default(),
	}
}

// Camera returns the renderer's camera.
func (r *Renderer) Camera() *Camera { return r.camera }

// Textures returns the texture cache.
func (r *Renderer) Textures() *TextureCache { return r.textures }

// Glyphs returns the glyph cache.
func (r *Renderer) Glyphs() *GlyphCache { return r.glyphs }

// Programs returns the program library.
func (r *Renderer) Programs() *Library { return r.programs }

// Register appends a drawable. Drawables are drawn in registration order;
// no sorting or batching is performed.
func (r *Renderer) Register(d Drawable) {
	r.drawables = append(r.drawables, d)
}

// Frame runs one frame: update every drawable, resolve resources, submit
// draw calls. dt is the seconds elapsed since the previous frame.
func (r *Renderer) Frame(dt float64) error {
	r.stats = FrameStats{Drawables: len(r.drawables)}
	r.device.BeginFrame()

	proj := r.camera.ProjectionMatrix()
	view := r.camera.ViewMatrix()

	for _, d := range r.drawables {
		d.Update(dt)

		mesh := d.Geometry()
		binding, err := r.bind(mesh)
		if err != nil {
			return err
		}

		prog, err := r.programs.Lookup(d.Program())
		if err != nil {
			return err
		}

		deps := d.ResourceDeps()
		handles := make([]Handle, len(deps))
		for i, key := range deps {
			handles[i] = r.resolve(key)
		}
		r.stats.DepsResolved += len(deps)

		model := d.Transform()
		for _, span := range mesh.Spans() {
			tex := NoHandle
			if span.Resource >= 0 && span.Resource < len(handles) {
				tex = handles[span.Resource]
			}
			call := DrawCall{
				Mesh:    binding.handle,
				Start:   span.Start,
				Count:   span.Count,
				Program: prog,
				Proj:    proj,
				View:    view,
				Model:   model,
				Texture: tex,
				Color:   d.Color(),
			}
			if err := r.device.Draw(call); err != nil {
				return fmt.Errorf("draw %q: %w", mesh.Name, err)
			}
			r.stats.DrawCalls++
		}
	}
	return nil
}

// bind uploads a mesh on first use and re-uploads it when its version
// changed since the last upload.
func (r *Renderer) bind(mesh *models.Mesh) (meshBinding, error) {
	binding, ok := r.bindings[mesh]
	if ok && binding.version == mesh.Version() {
		return binding, nil
	}
	if ok {
		r.device.FreeMesh(binding.handle)
	}

	handle, err := r.device.UploadMesh(mesh)
	if err != nil {
		return meshBinding{}, fmt.Errorf("upload mesh %q: %w", mesh.Name, err)
	}
	binding = meshBinding{handle: handle, version: mesh.Version()}
	r.bindings[mesh] = binding
	r.logger.Debug("mesh uploaded",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"indices", mesh.IndexCount())
	return binding, nil
}

// resolve turns a declared resource key into a device handle through the
// matching cache. Load failures substitute defined fallbacks (placeholder
// texture, fallback glyph) so a frame is never aborted by a bad resource.
func (r *Renderer) resolve(key ResourceKey) Handle {
	switch k := key.(type) {
	case TextureKey:
		return r.textures.GetOrPlaceholder(k).Handle
	case GlyphKey:
		entry, err := r.glyphs.Get(k)
		if err != nil {
			r.logger.Debug("glyph resolve failed", "key", k, "err", err)
			return NoHandle
		}
		return entry.Handle
	default:
		r.logger.Debug("unknown resource key kind", "key", key)
		return NoHandle
	}
}

// Stats returns the counters of the last Frame call.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Close tears down all device resources: cached textures and glyphs, and
// every uploaded mesh.
func (r *Renderer) Close() {
	r.textures.Clear()
	r.glyphs.Clear()
	for mesh, binding := range r.bindings {
		r.device.FreeMesh(binding.handle)
		delete(r.bindings, mesh)
	}
}
