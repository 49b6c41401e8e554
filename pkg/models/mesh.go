// Package models provides mesh representation, procedural primitives, and
// glTF loading for the engine.
package models

import (
	"github.com/gsingh93/game-engine/pkg/math3d"
)

// Topology selects how a mesh's index sequence is interpreted.
type Topology int

const (
	TriangleList Topology = iota // indices form triangles, three at a time
	LineList                     // indices form line segments, two at a time
)

// Vertex holds the per-vertex attributes the shader contracts expect:
// position, texture coordinate, and an optional normal.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
	Normal   math3d.Vec3
}

// Range binds a span of the index sequence to one of the owning drawable's
// declared resources. Resource indexes into the drawable's dependency
// list; -1 means the span is drawn without a texture.
type Range struct {
	Start    int // first index
	Count    int // number of indices
	Resource int // dependency index, -1 for none
}

// Mesh is an ordered vertex sequence plus an index sequence. A mesh is
// owned by the drawable that created it: it is uploaded to the device once
// and reused every frame until MarkDirty bumps its version.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []int
	Topology Topology

	// Ranges split the index sequence per bound resource. An empty slice
	// means a single implicit range covering all indices with no resource.
	Ranges []Range

	version int

	boundsMin math3d.Vec3
	boundsMax math3d.Vec3
}

// NewMesh creates an empty triangle mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// TriangleCount returns the number of triangles for triangle-list meshes,
// and 0 otherwise.
func (m *Mesh) TriangleCount() int {
	if m.Topology != TriangleList {
		return 0
	}
	return len(m.Indices) / 3
}

// MarkDirty records that the geometry changed and must be re-uploaded.
func (m *Mesh) MarkDirty() {
	m.version++
}

// Version returns the geometry version. The renderer re-uploads a mesh
// when the version it bound no longer matches.
func (m *Mesh) Version() int {
	return m.version
}

// Spans returns the explicit ranges, or the implicit whole-mesh range.
func (m *Mesh) Spans() []Range {
	if len(m.Ranges) > 0 {
		return m.Ranges
	}
	return []Range{{Start: 0, Count: len(m.Indices), Resource: -1}}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.boundsMin, m.boundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}
	m.boundsMin = m.Vertices[0].Position
	m.boundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.boundsMin = m.boundsMin.Min(v.Position)
		m.boundsMax = m.boundsMax.Max(v.Position)
	}
}

// Bounds returns the axis-aligned bounding box computed by CalculateBounds.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	return m.boundsMin, m.boundsMax
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.boundsMin.Add(m.boundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.boundsMax.Sub(m.boundsMin)
}

// CalculateNormals computes flat per-face normals for triangle meshes.
func (m *Mesh) CalculateNormals() {
	if m.Topology != TriangleList {
		return
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0 := m.Vertices[i0].Position
		edge1 := m.Vertices[i1].Position.Sub(v0)
		edge2 := m.Vertices[i2].Position.Sub(v0)
		normal := edge1.Cross(edge2).Normalize()

		m.Vertices[i0].Normal = normal
		m.Vertices[i1].Normal = normal
		m.Vertices[i2].Normal = normal
	}
}

// ApplyTransform bakes a transformation matrix into all vertices. Used to
// center and rescale loaded models before rendering starts.
func (m *Mesh) ApplyTransform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
	m.MarkDirty()
}
