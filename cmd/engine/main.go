// engine - Terminal 3D scene viewer
// Orbit a camera around a demo scene (or a glTF model) rendered with
// half-block cells.
//
// Controls:
//
//	Mouse drag  - Orbit camera (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S/A/D     - Pan the look-at target
//	Space       - Spin the cube
//	R           - Reset view
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/gsingh93/game-engine/pkg/math3d"
	"github.com/gsingh93/game-engine/pkg/models"
	"github.com/gsingh93/game-engine/pkg/render"
)

var (
	texturePath = flag.String("texture", "", "Path to cube texture image (PNG/JPG)")
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	verbose     = flag.Bool("verbose", false, "Log debug output to engine.log")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "engine - Terminal 3D scene viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: engine [options] [model.glb|model.gltf]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pan target\n")
		fmt.Fprintf(os.Stderr, "  Space       - Spin the cube\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if *verbose {
		f, err := os.Create("engine.log")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	} else {
		// The terminal owns stdout; drop log output entirely.
		slog.SetDefault(slog.New(slog.DiscardHandler))
	}

	var modelPath string
	if flag.NArg() > 0 {
		modelPath = flag.Arg(0)
	}

	if err := run(modelPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// orbitAxis tracks one camera input axis with spring-smoothed velocity
// decay, so a mouse flick keeps the camera gliding briefly.
type orbitAxis struct {
	velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{
		// Frequency 4.0 with damping 1.0 is critically damped: the
		// velocity eases to zero without overshoot.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// step decays the velocity toward zero and returns the delta to apply
// this frame.
func (a *orbitAxis) step() float64 {
	d := a.velocity
	a.velocity, a.velAccel = a.velSpring.Update(a.velocity, a.velAccel, 0)
	return d
}

// orbitInput is the spring-smoothed camera input state.
type orbitInput struct {
	yaw, pitch orbitAxis
	fps        int
}

func newOrbitInput(fps int) *orbitInput {
	return &orbitInput{
		yaw:   newOrbitAxis(fps),
		pitch: newOrbitAxis(fps),
		fps:   fps,
	}
}

func (in *orbitInput) impulse(yaw, pitch float64) {
	in.yaw.velocity += yaw
	in.pitch.velocity += pitch
}

func (in *orbitInput) apply(camera *render.Camera) {
	dy := in.yaw.step()
	dp := in.pitch.step()
	if dy != 0 || dp != 0 {
		camera.Orbit(dy, dp)
	}
}

func (in *orbitInput) reset() {
	in.yaw = newOrbitAxis(in.fps)
	in.pitch = newOrbitAxis(in.fps)
}

// loadScene builds the drawables: the ground grid, the centerpiece mesh
// (a cube, or a loaded glTF model), and the HUD text run.
func loadScene(r *render.Renderer, modelPath string) (*render.MeshObject, *render.TextRun, error) {
	r.Register(render.NewGrid(1, 0.1, render.ColorGray))

	var mesh *models.Mesh
	switch {
	case modelPath == "":
		mesh = models.NewCube("cube", 0.25)
	case strings.HasSuffix(strings.ToLower(modelPath), ".glb"),
		strings.HasSuffix(strings.ToLower(modelPath), ".gltf"):
		var err error
		mesh, err = models.LoadGLTF(modelPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
		fitMesh(mesh)
	default:
		return nil, nil, fmt.Errorf("unsupported format %q (use .glb or .gltf)", filepath.Ext(modelPath))
	}

	obj := render.NewMeshObject(mesh)
	if *texturePath != "" {
		obj.SetTexture(render.TextureKey{Path: *texturePath})
	} else if modelPath == "" {
		obj.SetTexture(render.TextureKey{Variant: render.VariantChecker})
	}
	r.Register(obj)

	hud := render.NewTextRun(r.Glyphs(), render.DefaultFont, 14, "")
	hud.SetColor(render.ColorWhite)
	r.Register(hud)

	return obj, hud, nil
}

// fitMesh centers a loaded model on the origin and scales it to a unit
// footprint so the default camera frames it.
func fitMesh(mesh *models.Mesh) {
	mesh.CalculateBounds()
	center := mesh.Center()
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return
	}
	scale := 1.0 / maxDim
	mesh.ApplyTransform(math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Negate())))
}

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	bg := render.RGB(bgR, bgG, bgB)

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable any-event mouse tracking with SGR extended coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	presenter := render.NewTerminalPresenter(term, width, height)
	fbWidth, fbHeight := presenter.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	camera := render.NewCamera()
	camera.SetAspect(float64(fbWidth) / float64(fbHeight))

	device := render.NewSoftDevice(fb)
	renderer := render.New(device, camera)
	defer renderer.Close()

	cube, hud, err := loadScene(renderer, modelPath)
	if err != nil {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
		return err
	}

	input := newOrbitInput(*targetFPS)
	showHUD := true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var mouseDown bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				presenter = render.NewTerminalPresenter(term, width, height)
				fbWidth, fbHeight = presenter.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				device.Retarget(fb)
				camera.SetAspect(float64(fbWidth) / float64(fbHeight))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					camera.Reset()
					input.reset()
				case ev.MatchString("w", "up"):
					camera.Pan(0, 0.2)
				case ev.MatchString("s", "down"):
					camera.Pan(0, -0.2)
				case ev.MatchString("a", "left"):
					camera.Pan(-0.2, 0)
				case ev.MatchString("d", "right"):
					camera.Pan(0.2, 0)
				case ev.MatchString("space"):
					cube.SetSpin(math3d.V3(
						(rand.Float64()-0.5)*3,
						(rand.Float64()-0.5)*3,
						(rand.Float64()-0.5)*3,
					))
				case ev.MatchString("+", "="):
					camera.Zoom(-0.5)
				case ev.MatchString("-", "_"):
					camera.Zoom(0.5)
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					showHUD = !showHUD
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					input.impulse(float64(dx)*0.03, float64(dy)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					camera.Zoom(-0.5)
				case uv.MouseWheelDown:
					camera.Zoom(0.5)
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	var fps float64
	fpsFrames := 0
	fpsTime := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		input.apply(camera)

		fpsFrames++
		if elapsed := time.Since(fpsTime); elapsed >= time.Second {
			fps = float64(fpsFrames) / elapsed.Seconds()
			fpsFrames = 0
			fpsTime = now
		}

		if showHUD {
			stats := renderer.Stats()
			hud.SetText(fmt.Sprintf("%.0f FPS  %d draws\n?: HUD  R: reset  Esc: quit",
				fps, stats.DrawCalls))
		} else {
			hud.SetText("")
		}
		hud.SetOrigin(4, 16)

		fb.Clear(bg)
		if err := renderer.Frame(dt); err != nil {
			cleanup()
			return fmt.Errorf("frame: %w", err)
		}

		if err := presenter.Present(fb); err != nil {
			cleanup()
			return fmt.Errorf("present: %w", err)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
