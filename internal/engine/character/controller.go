package character

import (
	"github.com/Faultbox/charview/pkg/math"
)

// Controller animates and moves one loaded model. It is created per model
// and dropped when the model is switched.
type Controller struct {
	transform    *Transform
	mixer        Mixer
	clips        map[ClipName]ClipHandle
	camera       Camera
	tuning       Tuning
	current      ClipName
	cameraTarget math.Vec3
}

// NewController starts the model in Idle and aims the camera at it.
// clips may lack any entry; transitions to a missing clip do nothing visible.
func NewController(transform *Transform, mixer Mixer, clips map[ClipName]ClipHandle, cam Camera, tuning Tuning) *Controller {
	c := &Controller{
		transform: transform,
		mixer:     mixer,
		clips:     clips,
		camera:    cam,
		tuning:    tuning,
		current:   ClipIdle,
	}
	if idle, ok := clips[ClipIdle]; ok {
		idle.Play()
	}
	c.updateCameraTarget(0, 0)
	return c
}

// Update runs one frame: pick the clip, cross-fade if it changed, advance
// every clip by dt, and walk the model while the current clip is Walk.
func (c *Controller) Update(dt float32, keys Keys) {
	if next := SelectClip(keys); next != c.current {
		c.switchClip(next)
	}

	c.mixer.Update(dt)

	if c.current == ClipWalk {
		c.updateLocomotion(dt, keys)
		return
	}
	c.updateCameraTarget(0, 0)
}

// Current returns the clip being played.
func (c *Controller) Current() ClipName {
	return c.current
}

// Transform returns the model transform the controller moves.
func (c *Controller) Transform() *Transform {
	return c.transform
}

// CameraTarget returns the last follow-target handed to the camera.
func (c *Controller) CameraTarget() math.Vec3 {
	return c.cameraTarget
}
