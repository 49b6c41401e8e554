package render

import (
	"testing"

	"github.com/gsingh93/game-engine/pkg/math3d"
	"github.com/gsingh93/game-engine/pkg/models"
)

// recordDevice wraps SoftDevice and records submitted draw calls.
type recordDevice struct {
	*SoftDevice
	calls []DrawCall
}

func newRecordDevice() *recordDevice {
	return &recordDevice{SoftDevice: newTestDevice()}
}

func (d *recordDevice) Draw(call DrawCall) error {
	d.calls = append(d.calls, call)
	return d.SoftDevice.Draw(call)
}

func TestFrameDrawsInRegistrationOrder(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())

	grid := NewGrid(1, 0.5, ColorGray)
	cube := NewMeshObject(models.NewCube("cube", 0.25))
	r.Register(grid)
	r.Register(cube)

	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	if len(device.calls) != 2 {
		t.Fatalf("got %d draw calls, want 2", len(device.calls))
	}
	if device.calls[0].Program.Name != ProgramUnlit {
		t.Errorf("first call uses %q, want the grid's program", device.calls[0].Program.Name)
	}
	gridVerts, _, _ := device.MeshCounts(device.calls[0].Mesh)
	if gridVerts != grid.Geometry().VertexCount() {
		t.Error("first draw call should carry the first registered drawable's mesh")
	}
}

func TestFrameUploadsMeshOnce(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())
	cube := NewMeshObject(models.NewCube("cube", 0.25))
	r.Register(cube)

	for range 3 {
		if err := r.Frame(0.016); err != nil {
			t.Fatalf("Frame: %v", err)
		}
	}

	handle := device.calls[0].Mesh
	for i, call := range device.calls {
		if call.Mesh != handle {
			t.Fatalf("frame %d re-uploaded an unchanged mesh", i)
		}
	}
}

func TestFrameReuploadsDirtyMesh(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())
	cube := NewMeshObject(models.NewCube("cube", 0.25))
	r.Register(cube)

	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	before := device.calls[0].Mesh

	cube.Geometry().ApplyTransform(math3d.Translate(math3d.V3(0, 1, 0)))
	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	after := device.calls[1].Mesh

	if before == after {
		t.Error("edited mesh should be re-uploaded under a fresh handle")
	}
	if _, _, ok := device.MeshCounts(before); ok {
		t.Error("stale mesh upload should have been freed")
	}
}

func TestFrameResolvesTexturesOnce(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())

	key := TextureKey{Variant: VariantChecker}
	a := NewMeshObject(models.NewCube("a", 0.25))
	a.SetTexture(key)
	b := NewMeshObject(models.NewCube("b", 0.25))
	b.SetTexture(key)
	r.Register(a)
	r.Register(b)

	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	stats := r.Textures().Stats()
	if stats.Loads != 1 {
		t.Errorf("texture loads = %d, want 1 for a shared key", stats.Loads)
	}
	if device.calls[0].Texture != device.calls[1].Texture {
		t.Error("both drawables should bind the same texture handle")
	}
}

func TestFramePlaceholderKeepsFrameAlive(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())

	obj := NewMeshObject(models.NewCube("cube", 0.25))
	obj.SetTexture(TextureKey{Path: "/nonexistent/missing.png"})
	r.Register(obj)

	if err := r.Frame(0); err != nil {
		t.Fatalf("a failed texture load must not abort the frame: %v", err)
	}
	if device.calls[0].Texture == NoHandle {
		t.Error("placeholder should be bound in place of the failed texture")
	}
}

func TestFrameRendersCubeToFramebuffer(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	device := NewSoftDevice(fb)
	r := New(device, NewCamera())

	cube := NewMeshObject(models.NewCube("cube", 0.5))
	cube.SetColor(ColorRed)
	r.Register(cube)

	fb.Clear(ColorBlack)
	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	// The camera starts 5 units out on +Z looking at the origin, so the
	// cube must cover the framebuffer center.
	if got := fb.GetPixel(32, 32); got != ColorRed {
		t.Errorf("center pixel = %v, want the cube's color", got)
	}
	if got := fb.GetPixel(1, 1); got != ColorBlack {
		t.Errorf("corner pixel = %v, want untouched background", got)
	}
}

func TestFrameDepthOrdering(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	device := NewSoftDevice(fb)
	r := New(device, NewCamera())

	// Register back-to-front so the depth buffer, not draw order, decides.
	// Quads are anchored at their bottom-left corner; offset them so both
	// straddle the view axis.
	near := NewMeshObject(models.NewQuad("near", 1, 1))
	near.SetColor(ColorGreen)
	near.SetPosition(math3d.V3(-0.5, -0.5, 1))
	far := NewMeshObject(models.NewQuad("far", 1, 1))
	far.SetColor(ColorBlue)
	far.SetPosition(math3d.V3(-0.5, -0.5, -1))
	r.Register(far)
	r.Register(near)

	fb.Clear(ColorBlack)
	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if got := fb.GetPixel(32, 32); got != ColorGreen {
		t.Errorf("center pixel = %v, want the nearer quad's color", got)
	}

	// Swapped registration order must not change the outcome.
	fb2 := NewFramebuffer(64, 64)
	device2 := NewSoftDevice(fb2)
	r2 := New(device2, NewCamera())
	r2.Register(near)
	r2.Register(far)
	fb2.Clear(ColorBlack)
	if err := r2.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if got := fb2.GetPixel(32, 32); got != ColorGreen {
		t.Errorf("center pixel = %v, want the nearer quad regardless of order", got)
	}
}

func TestFrameUnknownProgram(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())
	r.Register(&badProgramDrawable{mesh: models.NewCube("cube", 0.25)})

	if err := r.Frame(0); err == nil {
		t.Fatal("expected error for an unregistered program name")
	}
}

type badProgramDrawable struct {
	mesh *models.Mesh
}

func (d *badProgramDrawable) Geometry() *models.Mesh      { return d.mesh }
func (d *badProgramDrawable) Transform() math3d.Mat4      { return math3d.Identity() }
func (d *badProgramDrawable) Update(dt float64)           {}
func (d *badProgramDrawable) ResourceDeps() []ResourceKey { return nil }
func (d *badProgramDrawable) Program() string             { return "no-such-program" }
func (d *badProgramDrawable) Color() Color                { return ColorWhite }

func TestFrameStats(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())

	textured := NewMeshObject(models.NewCube("cube", 0.25))
	textured.SetTexture(TextureKey{Variant: VariantChecker})
	r.Register(NewGrid(1, 0.5, ColorGray))
	r.Register(textured)

	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	stats := r.Stats()
	if stats.Drawables != 2 {
		t.Errorf("Drawables = %d, want 2", stats.Drawables)
	}
	if stats.DrawCalls != 2 {
		t.Errorf("DrawCalls = %d, want 2", stats.DrawCalls)
	}
	if stats.DepsResolved != 1 {
		t.Errorf("DepsResolved = %d, want 1", stats.DepsResolved)
	}
}

func TestCloseFreesDeviceResources(t *testing.T) {
	device := newRecordDevice()
	r := New(device, NewCamera())

	obj := NewMeshObject(models.NewCube("cube", 0.25))
	obj.SetTexture(TextureKey{Variant: VariantChecker})
	r.Register(obj)

	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	handle := device.calls[0].Mesh

	r.Close()
	if device.TextureCount() != 0 {
		t.Errorf("device holds %d textures after Close, want 0", device.TextureCount())
	}
	if _, _, ok := device.MeshCounts(handle); ok {
		t.Error("mesh uploads should be freed by Close")
	}
}

func TestTextRunRendersThroughRenderer(t *testing.T) {
	fb := NewFramebuffer(128, 64)
	device := NewSoftDevice(fb)
	r := New(device, NewCamera())

	run := NewTextRun(r.Glyphs(), DefaultFont, 16, "Hi")
	run.SetOrigin(4, 20)
	run.SetColor(ColorWhite)
	r.Register(run)

	fb.Clear(ColorBlack)
	if err := r.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	lit := 0
	for _, p := range fb.Pixels {
		if p != ColorBlack {
			lit++
		}
	}
	if lit == 0 {
		t.Error("text run should light up some pixels")
	}
}
