// Package character drives a loaded character model: it picks the animation
// clip from the held keys, cross-fades between clips, and walks the model
// relative to the orbit camera while keeping the camera locked on.
package character

import (
	"github.com/Faultbox/charview/internal/engine/animation"
	"github.com/Faultbox/charview/pkg/math"
)

// ClipName identifies one of the clips the controller knows how to play.
type ClipName int

const (
	ClipIdle ClipName = iota
	ClipWalk
	ClipJump
	ClipSpecialAction
)

var clipNames = [...]string{
	ClipIdle:          "Idle",
	ClipWalk:          "Walk",
	ClipJump:          "Jump",
	ClipSpecialAction: "SpecialAction",
}

// String returns the clip name as authored in model assets.
func (c ClipName) String() string {
	if c < 0 || int(c) >= len(clipNames) {
		return "Unknown"
	}
	return clipNames[c]
}

// ClipNames lists every controllable clip.
func ClipNames() []ClipName {
	return []ClipName{ClipIdle, ClipWalk, ClipJump, ClipSpecialAction}
}

// ClipHandle is the playback control for one clip of the loaded model.
// *animation.Action satisfies it.
type ClipHandle interface {
	Play()
	Reset()
	FadeIn(duration float32)
	FadeOut(duration float32)
	SetLoop(mode animation.LoopMode)
	SetClampWhenFinished(clamp bool)
}

// Mixer advances every clip of the model. *animation.Mixer satisfies it.
type Mixer interface {
	Update(dt float32)
}

// Camera is the part of the orbit camera the controller drives.
// *camera.OrbitCamera satisfies it.
type Camera interface {
	Eye() math.Vec3
	Translate(dx, dz float32)
	WorldDirection() math.Vec3
	SetTarget(target math.Vec3)
}

// Transform is the movable node of a loaded model.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
}

// NewTransform returns a transform at the origin facing +Z.
func NewTransform() *Transform {
	return &Transform{Rotation: math.QuatIdentity()}
}

// Tuning holds the controller constants.
type Tuning struct {
	FadeDuration float32 // cross-fade time in seconds
	MoveSpeed    float32 // world units per second while walking
	TurnDamping  float32 // fraction of the remaining turn applied per update
	TargetHeight float32 // follow-target height above the model origin
}

// DefaultTuning returns the standard controller constants.
func DefaultTuning() Tuning {
	return Tuning{
		FadeDuration: 0.2,
		MoveSpeed:    2,
		TurnDamping:  0.2,
		TargetHeight: 1,
	}
}
