package render

import (
	"fmt"
	"math"

	"github.com/gsingh93/game-engine/pkg/math3d"
	"github.com/gsingh93/game-engine/pkg/models"
)

// SoftDevice is the reference Device: a software rasterizer drawing into a
// Framebuffer with a depth buffer. It implements the same draw-call
// contract a GPU backend would, so the rest of the engine is backend
// agnostic.
type SoftDevice struct {
	fb    *Framebuffer
	depth []float64

	meshes   map[Handle]*meshBuffer
	textures map[Handle]*Texture
	next     Handle
}

type meshBuffer struct {
	vertices []models.Vertex
	indices  []int
	topology models.Topology
}

// shaded is a vertex after the vertex stage: screen position, depth, the
// reciprocal of clip W for perspective-correct interpolation, and UV.
type shaded struct {
	x, y  float64
	z     float64
	invW  float64
	u, v  float64
	valid bool
}

// NewSoftDevice creates a software device targeting fb.
func NewSoftDevice(fb *Framebuffer) *SoftDevice {
	return &SoftDevice{
		fb:       fb,
		depth:    make([]float64, fb.Width*fb.Height),
		meshes:   make(map[Handle]*meshBuffer),
		textures: make(map[Handle]*Texture),
	}
}

// Retarget points the device at a new framebuffer (terminal resize).
func (d *SoftDevice) Retarget(fb *Framebuffer) {
	d.fb = fb
	d.depth = make([]float64, fb.Width*fb.Height)
}

// UploadMesh copies the mesh's buffers into device memory.
func (d *SoftDevice) UploadMesh(m *models.Mesh) (Handle, error) {
	mb := &meshBuffer{
		vertices: append([]models.Vertex(nil), m.Vertices...),
		indices:  append([]int(nil), m.Indices...),
		topology: m.Topology,
	}
	for _, idx := range mb.indices {
		if idx < 0 || idx >= len(mb.vertices) {
			return NoHandle, fmt.Errorf("mesh %q: index %d out of range", m.Name, idx)
		}
	}
	d.next++
	d.meshes[d.next] = mb
	return d.next, nil
}

// MeshCounts reports the buffer sizes of an uploaded mesh.
func (d *SoftDevice) MeshCounts(h Handle) (vertices, indices int, ok bool) {
	mb, ok := d.meshes[h]
	if !ok {
		return 0, 0, false
	}
	return len(mb.vertices), len(mb.indices), true
}

// FreeMesh releases an uploaded mesh.
func (d *SoftDevice) FreeMesh(h Handle) {
	delete(d.meshes, h)
}

// UploadTexture copies a texture into device memory.
func (d *SoftDevice) UploadTexture(t *Texture) (Handle, error) {
	if t.Width <= 0 || t.Height <= 0 {
		return NoHandle, fmt.Errorf("texture has empty dimensions %dx%d", t.Width, t.Height)
	}
	cp := &Texture{Width: t.Width, Height: t.Height, Pixels: append([]Color(nil), t.Pixels...)}
	d.next++
	d.textures[d.next] = cp
	return d.next, nil
}

// FreeTexture releases an uploaded texture.
func (d *SoftDevice) FreeTexture(h Handle) {
	delete(d.textures, h)
}

// TextureCount reports live texture uploads.
func (d *SoftDevice) TextureCount() int {
	return len(d.textures)
}

// BeginFrame clears the depth buffer.
func (d *SoftDevice) BeginFrame() {
	n := len(d.depth)
	if n == 0 {
		return
	}
	d.depth[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(d.depth[i:], d.depth[:i])
	}
}

// Draw runs one span of an uploaded mesh through the call's program.
func (d *SoftDevice) Draw(call DrawCall) error {
	mb, ok := d.meshes[call.Mesh]
	if !ok {
		return fmt.Errorf("draw: unknown mesh handle %d", call.Mesh)
	}
	if call.Program == nil {
		return fmt.Errorf("draw: nil program")
	}
	if call.Start < 0 || call.Start+call.Count > len(mb.indices) {
		return fmt.Errorf("draw: span [%d,%d) outside %d indices",
			call.Start, call.Start+call.Count, len(mb.indices))
	}

	var tex *Texture
	if call.Program.Frag != FragFlatColor && call.Texture != NoHandle {
		tex, ok = d.textures[call.Texture]
		if !ok {
			return fmt.Errorf("draw: unknown texture handle %d", call.Texture)
		}
	}

	// Vertex stage over the span's referenced vertices.
	screenSpace := call.Program.Kind == ProgramScreen
	mvp := call.Model
	if !screenSpace {
		mvp = call.Proj.Mul(call.View).Mul(call.Model)
	}

	shade := func(v models.Vertex) shaded {
		if screenSpace {
			p := call.Model.MulVec3(v.Position)
			return shaded{x: p.X, y: p.Y, z: -1, invW: 1, u: v.UV.X, v: v.UV.Y, valid: true}
		}
		clip := mvp.MulVec4(math3d.V4FromV3(v.Position, 1))
		if clip.W <= 0 {
			return shaded{}
		}
		ndc := clip.PerspectiveDivide()
		invW := 1 / clip.W
		return shaded{
			x:     (ndc.X + 1) * 0.5 * float64(d.fb.Width),
			y:     (1 - ndc.Y) * 0.5 * float64(d.fb.Height),
			z:     ndc.Z,
			invW:  invW,
			u:     v.UV.X * invW,
			v:     v.UV.Y * invW,
			valid: true,
		}
	}

	span := mb.indices[call.Start : call.Start+call.Count]
	switch mb.topology {
	case models.LineList:
		for i := 0; i+1 < len(span); i += 2 {
			a := shade(mb.vertices[span[i]])
			b := shade(mb.vertices[span[i+1]])
			if !a.valid || !b.valid {
				continue
			}
			d.line(a, b, call.Color, !screenSpace)
		}
	case models.TriangleList:
		for i := 0; i+2 < len(span); i += 3 {
			v0 := shade(mb.vertices[span[i]])
			v1 := shade(mb.vertices[span[i+1]])
			v2 := shade(mb.vertices[span[i+2]])
			if !v0.valid || !v1.valid || !v2.valid {
				continue
			}
			d.triangle(v0, v1, v2, call.Program.Frag, tex, call.Color, !screenSpace)
		}
	}
	return nil
}

// line draws a depth-tested line using Bresenham stepping with linear
// depth interpolation.
func (d *SoftDevice) line(a, b shaded, c Color, depthTest bool) {
	x0, y0 := int(a.x), int(a.y)
	x1, y1 := int(b.x), int(b.y)

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	steps := max(absInt(x1-x0), absInt(y1-y0))
	step := 0
	for {
		t := 0.0
		if steps > 0 {
			t = float64(step) / float64(steps)
		}
		z := a.z + (b.z-a.z)*t
		d.plot(x0, y0, z, c, depthTest)

		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
		step++
	}
}

// triangle rasterizes a filled triangle with barycentric interpolation,
// perspective-correct UVs, and depth testing.
func (d *SoftDevice) triangle(v0, v1, v2 shaded, frag FragMode, tex *Texture, c Color, depthTest bool) {
	minX := max(int(math.Floor(min3(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math.Ceil(max3(v0.x, v1.x, v2.x))), d.fb.Width-1)
	minY := max(int(math.Floor(min3(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math.Ceil(max3(v0.y, v1.y, v2.y))), d.fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(v1.x, v1.y, v2.x, v2.y, px, py) / area
			w1 := edge(v2.x, v2.y, v0.x, v0.y, px, py) / area
			w2 := edge(v0.x, v0.y, v1.x, v1.y, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z

			var out Color
			switch frag {
			case FragFlatColor:
				out = c
			case FragTexture, FragAlphaMask:
				if tex == nil {
					out = c
					break
				}
				// Interpolated attributes were divided by W in the vertex
				// stage; recover them here.
				invW := w0*v0.invW + w1*v1.invW + w2*v2.invW
				u := (w0*v0.u + w1*v1.u + w2*v2.u) / invW
				v := (w0*v0.v + w1*v1.v + w2*v2.v) / invW
				sample := tex.Sample(u, v)
				if frag == FragTexture {
					out = sample
				} else {
					// Alpha-only sample masked by the color uniform,
					// blended over the destination.
					if sample.A == 0 {
						continue
					}
					out = blend(d.fb.GetPixel(x, y), c, sample.A)
				}
			}

			d.plot(x, y, z, out, depthTest)
		}
	}
}

func (d *SoftDevice) plot(x, y int, z float64, c Color, depthTest bool) {
	if x < 0 || x >= d.fb.Width || y < 0 || y >= d.fb.Height {
		return
	}
	if depthTest {
		idx := y*d.fb.Width + x
		if z >= d.depth[idx] {
			return
		}
		d.depth[idx] = z
	}
	d.fb.Pixels[y*d.fb.Width+x] = c
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// blend composites src over dst weighted by alpha.
func blend(dst, src Color, alpha uint8) Color {
	a := int(alpha)
	inv := 255 - a
	return Color{
		R: uint8((int(src.R)*a + int(dst.R)*inv) / 255),
		G: uint8((int(src.G)*a + int(dst.G)*inv) / 255),
		B: uint8((int(src.B)*a + int(dst.B)*inv) / 255),
		A: 255,
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
