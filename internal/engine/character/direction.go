package character

import (
	gomath "math"

	"github.com/Faultbox/charview/internal/engine/input"
)

// Keys is a read-only view of the pressed-key table. *input.State
// satisfies it.
type Keys interface {
	IsPressed(key string) bool
	AnyPressed(keys ...string) bool
}

// Direction offsets relative to the camera yaw, in radians.
const (
	OffsetForward      = float32(gomath.Pi)
	OffsetForwardLeft  = float32(-3 * gomath.Pi / 4)
	OffsetForwardRight = float32(3 * gomath.Pi / 4)
	OffsetBack         = float32(0)
	OffsetBackLeft     = float32(-gomath.Pi / 4)
	OffsetBackRight    = float32(gomath.Pi / 4)
	OffsetLeft         = float32(-gomath.Pi / 2)
	OffsetRight        = float32(gomath.Pi / 2)
)

// DirectionOffset returns the yaw, relative to the camera, the model should
// face for the held movement keys. Forward wins over back, and with neither
// held left wins over right. No movement key falls back to forward.
func DirectionOffset(keys Keys) float32 {
	left := keys.IsPressed(input.KeyLeft)
	right := keys.IsPressed(input.KeyRight)

	switch {
	case keys.IsPressed(input.KeyForward):
		if left {
			return OffsetForwardLeft
		}
		if right {
			return OffsetForwardRight
		}
		return OffsetForward
	case keys.IsPressed(input.KeyBack):
		if left {
			return OffsetBackLeft
		}
		if right {
			return OffsetBackRight
		}
		return OffsetBack
	case left:
		return OffsetLeft
	case right:
		return OffsetRight
	}
	return OffsetForward
}

// CameraYaw returns the horizontal angle from the model to the camera,
// measured from +Z toward +X.
func CameraYaw(cameraX, cameraZ, modelX, modelZ float32) float32 {
	dirX := cameraX - modelX
	dirZ := cameraZ - modelZ
	length := float32(gomath.Sqrt(float64(dirX*dirX + dirZ*dirZ)))
	if length < 0.001 {
		return 0
	}
	return float32(gomath.Atan2(float64(dirX), float64(dirZ)))
}
