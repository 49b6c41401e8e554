package render

import (
	"github.com/gsingh93/game-engine/pkg/math3d"
	"github.com/gsingh93/game-engine/pkg/models"
)

// MeshObject is a drawable wrapping a mesh with a TRS transform, an
// optional spin animation, and an optional texture dependency.
type MeshObject struct {
	mesh     *models.Mesh
	position math3d.Vec3
	rotation math3d.Vec3
	scale    math3d.Vec3
	spin     math3d.Vec3 // angular velocity, radians per second
	texture  *TextureKey
	color    Color
	model    math3d.Mat4
}

// NewMeshObject creates a drawable for mesh with identity transform and a
// white flat color.
func NewMeshObject(mesh *models.Mesh) *MeshObject {
	return &MeshObject{
		mesh:  mesh,
		scale: math3d.V3(1, 1, 1),
		color: ColorWhite,
		model: math3d.Identity(),
	}
}

// SetPosition sets the object's translation.
func (o *MeshObject) SetPosition(p math3d.Vec3) {
	o.position = p
	o.recompose()
}

// SetScale sets the object's scale.
func (o *MeshObject) SetScale(s math3d.Vec3) {
	o.scale = s
	o.recompose()
}

// SetSpin sets a constant angular velocity in radians per second, applied
// by Update.
func (o *MeshObject) SetSpin(s math3d.Vec3) {
	o.spin = s
}

// SetColor sets the flat color uniform.
func (o *MeshObject) SetColor(c Color) {
	o.color = c
}

// SetTexture declares a texture dependency and binds the whole mesh to it.
func (o *MeshObject) SetTexture(key TextureKey) {
	o.texture = &key
	o.mesh.Ranges = []models.Range{{Start: 0, Count: len(o.mesh.Indices), Resource: 0}}
}

func (o *MeshObject) recompose() {
	o.model = math3d.TRS(o.position, o.rotation, o.scale)
}

// Geometry returns the wrapped mesh.
func (o *MeshObject) Geometry() *models.Mesh { return o.mesh }

// Transform returns the model matrix composed by the last Update.
func (o *MeshObject) Transform() math3d.Mat4 { return o.model }

// Update advances the spin animation and recomposes the model matrix.
func (o *MeshObject) Update(dt float64) {
	if o.spin == math3d.Zero3() {
		return
	}
	o.rotation = o.rotation.Add(o.spin.Scale(dt))
	o.recompose()
}

// ResourceDeps declares the optional texture dependency.
func (o *MeshObject) ResourceDeps() []ResourceKey {
	if o.texture == nil {
		return nil
	}
	return []ResourceKey{*o.texture}
}

// Program selects the textured or flat unlit program.
func (o *MeshObject) Program() string {
	if o.texture != nil {
		return ProgramUnlitTextured
	}
	return ProgramUnlit
}

// Color returns the color uniform value.
func (o *MeshObject) Color() Color { return o.color }

// Grid is a static procedural ground grid on the XZ plane.
type Grid struct {
	mesh  *models.Mesh
	color Color
}

// NewGrid creates a grid drawable spanning [-extent, extent] with the
// given line spacing.
func NewGrid(extent, spacing float64, color Color) *Grid {
	return &Grid{
		mesh:  models.NewGrid("grid", extent, spacing),
		color: color,
	}
}

// Geometry returns the grid's line mesh.
func (g *Grid) Geometry() *models.Mesh { return g.mesh }

// Transform returns the identity matrix; the grid never moves.
func (g *Grid) Transform() math3d.Mat4 { return math3d.Identity() }

// Update is a no-op; the grid is static.
func (g *Grid) Update(dt float64) {}

// ResourceDeps returns nil; the grid needs no textures.
func (g *Grid) ResourceDeps() []ResourceKey { return nil }

// Program returns the flat-color unlit program.
func (g *Grid) Program() string { return ProgramUnlit }

// Color returns the grid line color.
func (g *Grid) Color() Color { return g.color }
