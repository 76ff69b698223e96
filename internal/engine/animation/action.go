// Package animation provides a software clip mixer: per-clip playback time,
// looping and weight fades. It only tracks state; skinning is the renderer's job.
package animation

import gomath "math"

// Clip is a named, pre-authored animation.
type Clip struct {
	Name     string
	Duration float32 // seconds
}

// LoopMode controls what happens when playback reaches the clip end.
type LoopMode int

const (
	LoopRepeat LoopMode = iota // wrap to the start
	LoopOnce                   // stop at the end
)

// Action is the playback state of one clip within a Mixer.
type Action struct {
	clip Clip

	time   float32
	weight float32

	running  bool
	finished bool
	loop     LoopMode
	clamp    bool

	// Weight fade
	fading       bool
	fadeFrom     float32
	fadeTo       float32
	fadeDuration float32
	fadeElapsed  float32
}

func newAction(clip Clip) *Action {
	return &Action{
		clip:   clip,
		weight: 1,
		loop:   LoopRepeat,
	}
}

// Clip returns the clip this action plays.
func (a *Action) Clip() Clip { return a.clip }

// Time returns the playback position in seconds.
func (a *Action) Time() float32 { return a.time }

// Weight returns the current blend weight in [0, 1].
func (a *Action) Weight() float32 { return a.weight }

// IsRunning reports whether the action is advanced by the mixer.
func (a *Action) IsRunning() bool { return a.running }

// Finished reports whether a LoopOnce action reached its end.
func (a *Action) Finished() bool { return a.finished }

// Play starts advancing the action.
func (a *Action) Play() {
	a.running = true
}

// Stop halts the action and rewinds it.
func (a *Action) Stop() {
	a.running = false
	a.fading = false
	a.finished = false
	a.time = 0
}

// Reset rewinds to time zero and cancels any fade. Weight is left as is.
func (a *Action) Reset() {
	a.time = 0
	a.finished = false
	a.fading = false
}

// FadeIn ramps the weight from 0 to 1 over duration seconds.
func (a *Action) FadeIn(duration float32) {
	a.weight = 0
	a.startFade(0, 1, duration)
}

// FadeOut ramps the weight from its current value to 0 over duration
// seconds. The action stops once the weight reaches 0.
func (a *Action) FadeOut(duration float32) {
	a.startFade(a.weight, 0, duration)
}

// SetLoop sets the loop mode.
func (a *Action) SetLoop(mode LoopMode) {
	a.loop = mode
}

// SetClampWhenFinished makes a LoopOnce action hold its final pose at full
// weight instead of stopping when it ends.
func (a *Action) SetClampWhenFinished(clamp bool) {
	a.clamp = clamp
}

func (a *Action) startFade(from, to, duration float32) {
	if duration <= 0 {
		a.weight = to
		a.fading = false
		if to == 0 {
			a.running = false
		}
		return
	}
	a.fading = true
	a.fadeFrom = from
	a.fadeTo = to
	a.fadeDuration = duration
	a.fadeElapsed = 0
}

// advance moves playback and the weight fade forward by dt seconds.
func (a *Action) advance(dt float32) {
	if !a.running {
		return
	}

	if !a.finished {
		a.time += dt
		if d := a.clip.Duration; d > 0 && a.time >= d {
			switch a.loop {
			case LoopRepeat:
				a.time = float32(gomath.Mod(float64(a.time), float64(d)))
			case LoopOnce:
				a.time = d
				a.finished = true
				if !a.clamp {
					a.running = false
					a.weight = 0
					a.fading = false
					return
				}
			}
		}
	}

	if a.fading {
		a.fadeElapsed += dt
		progress := a.fadeElapsed / a.fadeDuration
		if progress >= 1 {
			progress = 1
			a.fading = false
		}
		a.weight = a.fadeFrom + (a.fadeTo-a.fadeFrom)*progress
		if !a.fading && a.fadeTo == 0 {
			a.running = false
		}
	}
}
