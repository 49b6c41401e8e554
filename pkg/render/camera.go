package render

import (
	"log/slog"
	"math"

	"github.com/gsingh93/game-engine/pkg/math3d"
)

// Camera orbit limits. Pitch stops just short of the poles to keep the
// look-at basis well defined.
const (
	maxPitch           = math.Pi/2 - 0.01
	defaultMinDistance = 1.0
	defaultMaxDistance = 100.0
)

// Camera is an orbit camera: its position is derived from spherical
// coordinates (yaw, pitch, distance) around a pannable look-at target.
// All parameters are continuous; out-of-range input is clamped, never an
// error.
type Camera struct {
	yaw      float64 // radians, wraps modulo 2*pi
	pitch    float64 // radians, clamped to (-maxPitch, maxPitch)
	distance float64
	target   math3d.Vec3

	fov    float64
	aspect float64
	near   float64
	far    float64

	minDistance float64
	maxDistance float64

	// Cached matrices (recomputed on demand).
	view      math3d.Mat4
	proj      math3d.Mat4
	viewDirty bool
	projDirty bool

	logger *slog.Logger
}

// NewCamera creates an orbit camera looking at the origin from 5 units
// away down the +Z axis. Projection defaults match the classic demo
// setup: 90 degree vertical FOV, near 0.1, far 1024, 4:3 aspect.
func NewCamera() *Camera {
	return &Camera{
		distance:    5,
		fov:         math.Pi / 2,
		aspect:      4.0 / 3.0,
		near:        0.1,
		far:         1024,
		minDistance: defaultMinDistance,
		maxDistance: defaultMaxDistance,
		viewDirty:   true,
		projDirty:   true,
		logger:      slog.Default(),
	}
}

// SetLogger replaces the camera's debug logger.
func (c *Camera) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Orbit adds input deltas to yaw and pitch. Yaw wraps modulo a full turn;
// pitch is clamped so the camera never flips over the poles.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	c.yaw = math.Mod(c.yaw+deltaYaw, 2*math.Pi)
	c.pitch = clamp(c.pitch+deltaPitch, -maxPitch, maxPitch)
	c.viewDirty = true
	c.logger.Debug("camera orbit", "yaw", c.yaw, "pitch", c.pitch)
}

// Pan moves the look-at target in the camera's local right/up plane.
func (c *Camera) Pan(deltaX, deltaY float64) {
	toEye := math3d.Spherical(c.yaw, c.pitch, 1)
	forward := toEye.Negate()
	right := forward.Cross(math3d.Up()).Normalize()
	up := right.Cross(forward)

	c.target = c.target.Add(right.Scale(deltaX)).Add(up.Scale(deltaY))
	c.viewDirty = true
	c.logger.Debug("camera pan", "target", c.target)
}

// Zoom adjusts the orbit distance, clamped to the configured range. The
// minimum is always positive: the camera cannot cross through its target.
func (c *Camera) Zoom(delta float64) {
	c.distance = clamp(c.distance+delta, c.minDistance, c.maxDistance)
	c.viewDirty = true
	c.logger.Debug("camera zoom", "distance", c.distance)
}

// Reset restores the default orbit: yaw and pitch zero, distance 5,
// target at the origin. The projection is left untouched.
func (c *Camera) Reset() {
	c.yaw, c.pitch = 0, 0
	c.distance = clamp(5, c.minDistance, c.maxDistance)
	c.target = math3d.Zero3()
	c.viewDirty = true
	c.logger.Debug("camera reset")
}

// SetDistanceRange sets the zoom clamp range and re-clamps the current
// distance. min is raised to a small positive bound if necessary.
func (c *Camera) SetDistanceRange(min, max float64) {
	if min <= 0 {
		min = 1e-3
	}
	c.minDistance, c.maxDistance = min, max
	c.distance = clamp(c.distance, min, max)
	c.viewDirty = true
}

// SetAspect sets the aspect ratio (width / height). Callers must invoke
// this on every viewport resize; the camera does not poll.
func (c *Camera) SetAspect(aspect float64) {
	c.aspect = aspect
	c.projDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.fov = fov
	c.projDirty = true
	c.logger.Debug("camera fov", "fov", fov)
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.near, c.far = near, far
	c.projDirty = true
}

// Yaw returns the current orbit yaw in radians.
func (c *Camera) Yaw() float64 { return c.yaw }

// Pitch returns the current orbit pitch in radians.
func (c *Camera) Pitch() float64 { return c.pitch }

// Distance returns the current orbit distance.
func (c *Camera) Distance() float64 { return c.distance }

// Target returns the current look-at target.
func (c *Camera) Target() math3d.Vec3 { return c.target }

// Eye returns the derived camera position in world space.
func (c *Camera) Eye() math3d.Vec3 {
	return c.target.Add(math3d.Spherical(c.yaw, c.pitch, c.distance))
}

// ViewMatrix returns the view matrix derived from the orbit state.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.view = math3d.LookAt(c.Eye(), c.target, math3d.Up())
		c.viewDirty = false
	}
	return c.view
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.proj = math3d.Perspective(c.fov, c.aspect, c.near, c.far)
		c.projDirty = false
	}
	return c.proj
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
