package models

import (
	"github.com/gsingh93/game-engine/pkg/math3d"
)

// NewCube creates an axis-aligned cube centered at the origin with the
// given half extent. Each face gets its own four vertices so UVs map the
// full texture onto every face.
func NewCube(name string, half float64) *Mesh {
	h := half

	type face struct {
		corners [4]math3d.Vec3
		normal  math3d.Vec3
	}
	faces := []face{
		{[4]math3d.Vec3{{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}}, math3d.V3(0, 0, 1)},      // front
		{[4]math3d.Vec3{{X: h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: -h}, {X: -h, Y: h, Z: -h}, {X: h, Y: h, Z: -h}}, math3d.V3(0, 0, -1)}, // back
		{[4]math3d.Vec3{{X: h, Y: -h, Z: h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: h, Y: h, Z: h}}, math3d.V3(1, 0, 0)},      // right
		{[4]math3d.Vec3{{X: -h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: h}, {X: -h, Y: h, Z: h}, {X: -h, Y: h, Z: -h}}, math3d.V3(-1, 0, 0)}, // left
		{[4]math3d.Vec3{{X: -h, Y: h, Z: h}, {X: h, Y: h, Z: h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h}}, math3d.V3(0, 1, 0)},      // top
		{[4]math3d.Vec3{{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: -h, Z: h}, {X: -h, Y: -h, Z: h}}, math3d.V3(0, -1, 0)}, // bottom
	}
	uvs := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	m := NewMesh(name)
	for _, f := range faces {
		base := len(m.Vertices)
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: c, UV: uvs[i], Normal: f.normal})
		}
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	m.CalculateBounds()
	return m
}

// NewGrid creates a line-list grid on the XZ plane at y=0, spanning
// [-extent, extent] in both directions with the given line spacing.
func NewGrid(name string, extent, spacing float64) *Mesh {
	m := NewMesh(name)
	m.Topology = LineList

	addLine := func(a, b math3d.Vec3) {
		base := len(m.Vertices)
		m.Vertices = append(m.Vertices, Vertex{Position: a}, Vertex{Position: b})
		m.Indices = append(m.Indices, base, base+1)
	}

	for d := -extent; d <= extent+spacing/2; d += spacing {
		addLine(math3d.V3(d, 0, -extent), math3d.V3(d, 0, extent))
		addLine(math3d.V3(-extent, 0, d), math3d.V3(extent, 0, d))
	}
	m.CalculateBounds()
	return m
}

// NewQuad creates a unit quad in the XY plane facing +Z, with UVs covering
// the full texture. Width and height scale the quad around its bottom-left
// corner at the origin.
func NewQuad(name string, width, height float64) *Mesh {
	m := NewMesh(name)
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0), UV: math3d.V2(0, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(width, 0, 0), UV: math3d.V2(1, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(width, height, 0), UV: math3d.V2(1, 1), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(0, height, 0), UV: math3d.V2(0, 1), Normal: math3d.V3(0, 0, 1)},
	}
	m.Indices = []int{0, 1, 2, 0, 2, 3}
	m.CalculateBounds()
	return m
}
