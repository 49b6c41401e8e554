package render

import (
	"github.com/gsingh93/game-engine/pkg/math3d"
	"github.com/gsingh93/game-engine/pkg/models"
)

// ResourceKey is a cache key a drawable depends on. The kind set is
// closed: texture keys and glyph keys.
type ResourceKey interface {
	resourceKey()
}

// Drawable is the capability set every renderable object implements. The
// renderer treats a spinning mesh, a ground grid, and a block of text
// uniformly through this interface.
//
// Drawables declare the resources they need as cache keys and never hold
// device handles themselves, so cache invalidation cannot leave a
// drawable with a dangling handle.
type Drawable interface {
	// Geometry returns the drawable's mesh. The same mesh is returned
	// every call unless the geometry actually changed; changes are
	// signalled through the mesh's version.
	Geometry() *models.Mesh

	// Transform returns the current model matrix, recomputed by Update.
	Transform() math3d.Mat4

	// Update advances animation state by dt seconds.
	Update(dt float64)

	// ResourceDeps declares the texture/glyph keys this drawable needs
	// resolved before it can be drawn, in the order mesh ranges refer to
	// them.
	ResourceDeps() []ResourceKey

	// Program names the shader program this drawable is drawn with.
	Program() string

	// Color is the value bound to the program's color uniform.
	Color() Color
}
