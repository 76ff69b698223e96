// Package camera provides the third-person orbit camera that follows the
// controlled model.
package camera

import (
	gomath "math"

	"github.com/Faultbox/charview/pkg/math"
)

// minPolar keeps the camera off the exact pole, where LookAt degenerates.
const minPolar = 0.000001

// OrbitCamera orbits a follow-target. Position is free state: callers may
// move it directly (the character controller translates it with the model)
// and Update re-applies the orbit constraints around Target.
type OrbitCamera struct {
	Position math.Vec3
	Target   math.Vec3

	// Constraints
	MinDistance float32
	MaxDistance float32
	MaxPolar    float32 // radians from straight up; Pi/2 keeps the camera above the floor

	// Projection
	FovY float32 // radians
	Near float32
	Far  float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
	DampingFactor   float32 // 0 disables damping

	// Pending orbit input, consumed by Update
	deltaTheta float32
	deltaPhi   float32
	zoomScale  float32
}

// NewOrbitCamera creates a camera at (0, 0, 5) looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Position:        math.Vec3{X: 0, Y: 0, Z: 5},
		Target:          math.Vec3{},
		MinDistance:     5,
		MaxDistance:     15,
		MaxPolar:        gomath.Pi / 2,
		FovY:            45 * gomath.Pi / 180,
		Near:            0.1,
		Far:             1000,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		DampingFactor:   0.05,
		zoomScale:       1,
	}
}

// SetTarget sets the orbit follow-target.
func (c *OrbitCamera) SetTarget(target math.Vec3) {
	c.Target = target
}

// Eye returns the camera position.
func (c *OrbitCamera) Eye() math.Vec3 {
	return c.Position
}

// Translate moves the camera position horizontally without touching the target.
func (c *OrbitCamera) Translate(dx, dz float32) {
	c.Position.X += dx
	c.Position.Z += dz
}

// WorldDirection returns the unit vector the camera looks along.
func (c *OrbitCamera) WorldDirection() math.Vec3 {
	dir := c.Target.Sub(c.Position).Normalize()
	if dir == (math.Vec3{}) {
		return math.Vec3{X: 0, Y: 0, Z: -1}
	}
	return dir
}

// HandleDrag queues an orbit rotation from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.deltaTheta -= deltaX * c.DragSensitivity
	c.deltaPhi -= deltaY * c.DragSensitivity
}

// HandleZoom queues a distance change from a scroll wheel delta.
// Positive deltas move closer.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.zoomScale *= 1 - delta*c.ZoomSensitivity
	if c.zoomScale <= 0 {
		c.zoomScale = 0.01
	}
}

// Update applies queued orbit input and the distance and polar limits,
// then writes the constrained position back. With no pending input it is
// idempotent.
func (c *OrbitCamera) Update() {
	offset := c.Position.Sub(c.Target)

	radius := offset.Length()
	theta := float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	phi := float32(0)
	if radius > 0 {
		phi = float32(gomath.Acos(clamp(float64(offset.Y/radius), -1, 1)))
	}

	if c.DampingFactor > 0 {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
		c.deltaTheta, c.deltaPhi = 0, 0
	}

	phi = float32(clamp(float64(phi), minPolar, float64(c.MaxPolar)))

	radius *= c.zoomScale
	c.zoomScale = 1
	radius = float32(clamp(float64(radius), float64(c.MinDistance), float64(c.MaxDistance)))

	sinPhi := float32(gomath.Sin(float64(phi)))
	c.Position = math.Vec3{
		X: c.Target.X + radius*sinPhi*float32(gomath.Sin(float64(theta))),
		Y: c.Target.Y + radius*float32(gomath.Cos(float64(phi))),
		Z: c.Target.Z + radius*sinPhi*float32(gomath.Cos(float64(theta))),
	}
}

// Distance returns the distance from the camera to its target.
func (c *OrbitCamera) Distance() float32 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the view matrix looking from Position at Target.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, math.Up)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
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
