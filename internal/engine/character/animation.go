package character

import (
	"go.uber.org/zap"

	"github.com/Faultbox/charview/internal/engine/animation"
	"github.com/Faultbox/charview/internal/engine/input"
	"github.com/Faultbox/charview/internal/logger"
)

// SelectClip picks the clip for the held keys. First match wins:
// any movement key walks, then jump, then the special action, else idle.
func SelectClip(keys Keys) ClipName {
	if keys.AnyPressed(input.Directions...) {
		return ClipWalk
	}
	if keys.IsPressed(input.KeyJump) {
		return ClipJump
	}
	if keys.IsPressed(input.KeySpecial) {
		return ClipSpecialAction
	}
	return ClipIdle
}

// switchClip cross-fades from the current clip to next. A missing handle on
// either side is skipped; the current clip name switches regardless.
func (c *Controller) switchClip(next ClipName) {
	fade := c.tuning.FadeDuration

	if current, ok := c.clips[c.current]; ok {
		current.FadeOut(fade)
	}

	if incoming, ok := c.clips[next]; ok {
		incoming.Reset()
		incoming.FadeIn(fade)
		if next == ClipJump {
			// Jump plays once and holds its last pose until the keys change.
			incoming.SetLoop(animation.LoopOnce)
			incoming.SetClampWhenFinished(true)
		}
		incoming.Play()
	} else {
		logger.Debug("clip not in model, keeping current pose",
			zap.Stringer("clip", next))
	}

	logger.Debug("clip switched",
		zap.Stringer("from", c.current),
		zap.Stringer("to", next),
		zap.Float32("facing", c.transform.Rotation.Yaw()),
	)
	c.current = next
}
