// Package render provides the engine's rendering core: the graphics device
// abstraction, resource caches for textures and glyphs, the orbit camera,
// the drawable object abstraction, and the per-frame driver.
package render

import (
	"github.com/gsingh93/game-engine/pkg/math3d"
	"github.com/gsingh93/game-engine/pkg/models"
)

// Handle is an opaque reference to a device-resident resource (vertex
// buffer or texture). Handles are owned exclusively by the cache or
// renderer that created them; drawables only ever hold cache keys.
type Handle uint32

// NoHandle is the zero Handle, referring to no resource.
const NoHandle Handle = 0

// DrawCall is one geometry submission: an uploaded mesh span, the program
// to run it through, the composed matrices, and the bound resources.
type DrawCall struct {
	Mesh  Handle
	Start int // first index of the span
	Count int // number of indices in the span

	Program *Program

	// Proj and View come from the camera and are ignored by screen-space
	// programs. Model is the drawable's transform; for screen-space
	// programs it maps geometry directly to pixel coordinates.
	Proj  math3d.Mat4
	View  math3d.Mat4
	Model math3d.Mat4

	Texture Handle // NoHandle when the fragment mode needs no texture
	Color   Color
}

// Device is the engine's graphics backend contract. Uploads hand back
// opaque handles; Draw submits one span of an uploaded mesh.
//
// The engine is single-threaded: devices are not required to be safe for
// concurrent use.
type Device interface {
	UploadMesh(m *models.Mesh) (Handle, error)
	// MeshCounts reports the vertex and index counts of an uploaded mesh.
	MeshCounts(h Handle) (vertices, indices int, ok bool)
	FreeMesh(h Handle)

	UploadTexture(t *Texture) (Handle, error)
	FreeTexture(h Handle)
	// TextureCount reports live texture uploads, for teardown checks.
	TextureCount() int

	// BeginFrame resets per-frame state (the depth buffer).
	BeginFrame()
	Draw(call DrawCall) error
}
