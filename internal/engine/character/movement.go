package character

import (
	"github.com/Faultbox/charview/pkg/math"
)

// Below this remaining angle, in radians, the model snaps to its facing.
const facingTolerance = 1e-4

// updateLocomotion turns the model toward the held direction and walks it
// along the camera's flattened view direction.
func (c *Controller) updateLocomotion(dt float32, keys Keys) {
	eye := c.camera.Eye()
	pos := c.transform.Position
	offset := DirectionOffset(keys)

	// Face the camera yaw plus the key offset, easing in a fixed fraction per frame.
	yaw := CameraYaw(eye.X, eye.Z, pos.X, pos.Z)
	target := math.QuatFromYaw(yaw + offset)
	if c.transform.Rotation.AngleTo(target) < facingTolerance {
		c.transform.Rotation = target
	} else {
		c.transform.Rotation = c.transform.Rotation.RotateTowards(target, c.tuning.TurnDamping)
	}

	// Walk away from the camera, turned by the same offset.
	dir := c.camera.WorldDirection().Flatten().Scale(-1).Normalize().RotateY(offset)
	move := dir.Scale(c.tuning.MoveSpeed * dt)

	c.transform.Position = pos.Add(move)
	c.updateCameraTarget(move.X, move.Z)
}

// updateCameraTarget moves the camera rigidly with the model and aims it at
// the model's head height.
func (c *Controller) updateCameraTarget(moveX, moveZ float32) {
	c.camera.Translate(moveX, moveZ)
	c.cameraTarget = c.transform.Position.Add(math.Vec3{Y: c.tuning.TargetHeight})
	c.camera.SetTarget(c.cameraTarget)
}
