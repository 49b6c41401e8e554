package models

import (
	"math"
	"testing"

	"github.com/gsingh93/game-engine/pkg/math3d"
)

func TestMeshCounts(t *testing.T) {
	m := NewMesh("tri")
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	m.Indices = []int{0, 1, 2}

	if m.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", m.VertexCount())
	}
	if m.IndexCount() != 3 {
		t.Errorf("IndexCount = %d, want 3", m.IndexCount())
	}
	if m.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", m.TriangleCount())
	}
}

func TestMeshDirtyVersioning(t *testing.T) {
	m := NewMesh("v")
	v0 := m.Version()
	m.MarkDirty()
	if m.Version() == v0 {
		t.Error("MarkDirty should change the version")
	}
}

func TestMeshBounds(t *testing.T) {
	m := NewMesh("bounds")
	m.Vertices = []Vertex{
		{Position: math3d.V3(-1, 2, -3)},
		{Position: math3d.V3(4, -5, 6)},
	}
	m.CalculateBounds()

	min, max := m.Bounds()
	if min != math3d.V3(-1, -5, -3) || max != math3d.V3(4, 2, 6) {
		t.Errorf("bounds = %v..%v", min, max)
	}
	if m.Center() != math3d.V3(1.5, -1.5, 1.5) {
		t.Errorf("Center = %v", m.Center())
	}
}

func TestSpansImplicit(t *testing.T) {
	m := NewQuad("q", 1, 1)
	spans := m.Spans()
	if len(spans) != 1 {
		t.Fatalf("implicit spans = %d, want 1", len(spans))
	}
	if spans[0].Start != 0 || spans[0].Count != 6 || spans[0].Resource != -1 {
		t.Errorf("implicit span = %+v", spans[0])
	}
}

func TestCalculateNormals(t *testing.T) {
	m := NewMesh("n")
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	m.Indices = []int{0, 1, 2}
	m.CalculateNormals()

	want := math3d.V3(0, 0, 1)
	for i, v := range m.Vertices {
		if math.Abs(v.Normal.X-want.X) > 1e-9 ||
			math.Abs(v.Normal.Y-want.Y) > 1e-9 ||
			math.Abs(v.Normal.Z-want.Z) > 1e-9 {
			t.Errorf("vertex %d normal = %v, want %v", i, v.Normal, want)
		}
	}
}

func TestNewCube(t *testing.T) {
	c := NewCube("cube", 0.25)

	if c.VertexCount() != 24 {
		t.Errorf("cube vertices = %d, want 24", c.VertexCount())
	}
	if c.TriangleCount() != 12 {
		t.Errorf("cube triangles = %d, want 12", c.TriangleCount())
	}

	min, max := c.Bounds()
	if min != math3d.V3(-0.25, -0.25, -0.25) || max != math3d.V3(0.25, 0.25, 0.25) {
		t.Errorf("cube bounds = %v..%v", min, max)
	}
}

func TestNewGrid(t *testing.T) {
	g := NewGrid("grid", 1, 0.1)

	if g.Topology != LineList {
		t.Error("grid should be a line list")
	}
	// 21 lines per direction, 2 indices per line.
	if g.IndexCount() != 21*2*2 {
		t.Errorf("grid indices = %d, want %d", g.IndexCount(), 21*2*2)
	}
	for _, v := range g.Vertices {
		if v.Position.Y != 0 {
			t.Fatalf("grid vertex off the XZ plane: %v", v.Position)
		}
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/model.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
