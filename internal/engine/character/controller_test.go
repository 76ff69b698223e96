package character

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/charview/internal/engine/animation"
	"github.com/Faultbox/charview/internal/engine/camera"
	"github.com/Faultbox/charview/internal/engine/input"
	"github.com/Faultbox/charview/pkg/math"
)

const frame = float32(1.0 / 60.0)

type rig struct {
	ctrl   *Controller
	mixer  *animation.Mixer
	camera *camera.OrbitCamera
	keys   *input.State
}

func newRig(t *testing.T, names ...ClipName) *rig {
	t.Helper()
	if len(names) == 0 {
		names = ClipNames()
	}

	mixer := animation.NewMixer()
	clips := make(map[ClipName]ClipHandle)
	for _, n := range names {
		clips[n] = mixer.ClipAction(animation.Clip{Name: n.String(), Duration: 1})
	}

	cam := camera.NewOrbitCamera()
	ctrl := NewController(NewTransform(), mixer, clips, cam, DefaultTuning())
	return &rig{ctrl: ctrl, mixer: mixer, camera: cam, keys: input.NewState()}
}

func (r *rig) action(t *testing.T, n ClipName) *animation.Action {
	t.Helper()
	a, ok := r.mixer.Action(n.String())
	if !ok {
		t.Fatalf("no action for %v", n)
	}
	return a
}

func (r *rig) run(frames int) {
	for i := 0; i < frames; i++ {
		r.ctrl.Update(frame, r.keys)
	}
}

func TestNewControllerStartsIdle(t *testing.T) {
	r := newRig(t)

	if r.ctrl.Current() != ClipIdle {
		t.Errorf("expected Idle, got %v", r.ctrl.Current())
	}
	idle := r.action(t, ClipIdle)
	if !idle.IsRunning() || idle.Weight() != 1 {
		t.Errorf("expected Idle playing at full weight, running=%v weight=%v", idle.IsRunning(), idle.Weight())
	}
	want := math.Vec3{X: 0, Y: 1, Z: 0}
	if r.ctrl.CameraTarget() != want || r.camera.Target != want {
		t.Errorf("expected camera target %v, got %v / %v", want, r.ctrl.CameraTarget(), r.camera.Target)
	}
}

func TestSelectClipPriority(t *testing.T) {
	all := []string{input.KeyForward, input.KeyBack, input.KeyLeft, input.KeyRight, input.KeyJump, input.KeySpecial}

	// Every subset of the six keys.
	for mask := 0; mask < 1<<len(all); mask++ {
		s := input.NewState()
		for i, k := range all {
			s.SetPressed(k, mask&(1<<i) != 0)
		}

		moving := mask&0b1111 != 0
		jump := s.IsPressed(input.KeyJump)
		special := s.IsPressed(input.KeySpecial)

		want := ClipIdle
		switch {
		case moving:
			want = ClipWalk
		case jump:
			want = ClipJump
		case special:
			want = ClipSpecialAction
		}

		if got := SelectClip(s); got != want {
			t.Errorf("mask %06b: expected %v, got %v", mask, want, got)
		}
	}
}

func TestDirectionOffset(t *testing.T) {
	pi := float32(gomath.Pi)
	tests := []struct {
		keys []string
		want float32
	}{
		{[]string{input.KeyForward, input.KeyLeft}, -3 * pi / 4},
		{[]string{input.KeyForward, input.KeyRight}, 3 * pi / 4},
		{[]string{input.KeyForward}, pi},
		{[]string{input.KeyBack, input.KeyLeft}, -pi / 4},
		{[]string{input.KeyBack, input.KeyRight}, pi / 4},
		{[]string{input.KeyBack}, 0},
		{[]string{input.KeyLeft}, -pi / 2},
		{[]string{input.KeyRight}, pi / 2},
		{nil, pi},
	}

	for _, tt := range tests {
		s := input.NewState()
		for _, k := range tt.keys {
			s.SetPressed(k, true)
		}
		if got := DirectionOffset(s); gomath.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("keys %q: expected %v, got %v", tt.keys, tt.want, got)
		}
	}
}

func TestCameraYaw(t *testing.T) {
	tests := []struct {
		name           string
		cx, cz, mx, mz float32
		want           float32
	}{
		{"behind on +Z", 0, 5, 0, 0, 0},
		{"on +X", 5, 0, 0, 0, gomath.Pi / 2},
		{"on -Z", 0, -5, 0, 0, gomath.Pi},
		{"same spot", 1, 1, 1, 1, 0},
	}
	for _, tt := range tests {
		if got := CameraYaw(tt.cx, tt.cz, tt.mx, tt.mz); gomath.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestCrossFadeOnWalk(t *testing.T) {
	r := newRig(t)
	r.keys.SetPressed(input.KeyForward, true)

	r.ctrl.Update(0.1, r.keys)

	if r.ctrl.Current() != ClipWalk {
		t.Fatalf("expected Walk, got %v", r.ctrl.Current())
	}
	idle := r.action(t, ClipIdle)
	walk := r.action(t, ClipWalk)
	if idle.Weight() <= 0 || walk.Weight() <= 0 {
		t.Errorf("expected both clips weighted mid-fade, idle=%v walk=%v", idle.Weight(), walk.Weight())
	}

	r.ctrl.Update(0.15, r.keys)
	if idle.Weight() != 0 || walk.Weight() != 1 {
		t.Errorf("expected fade complete, idle=%v walk=%v", idle.Weight(), walk.Weight())
	}
}

func TestWalkForwardMovesAwayFromCamera(t *testing.T) {
	r := newRig(t)
	r.keys.SetPressed(input.KeyForward, true)

	r.ctrl.Update(0.5, r.keys)

	pos := r.ctrl.Transform().Position
	want := math.Vec3{X: 0, Y: 0, Z: -1}
	if pos.Distance(want) > 0.0001 {
		t.Errorf("expected position %v after 0.5s, got %v", want, pos)
	}
}

func TestWalkRightMovesAlongX(t *testing.T) {
	r := newRig(t)
	r.keys.SetPressed(input.KeyRight, true)

	r.ctrl.Update(1, r.keys)

	pos := r.ctrl.Transform().Position
	want := math.Vec3{X: 2, Y: 0, Z: 0}
	if pos.Distance(want) > 0.0001 {
		t.Errorf("expected position %v, got %v", want, pos)
	}
}

func TestCameraFollowsRigidly(t *testing.T) {
	r := newRig(t)
	r.keys.SetPressed(input.KeyForward, true)
	r.keys.SetPressed(input.KeyLeft, true)

	offset := r.camera.Position.Sub(r.ctrl.Transform().Position)
	r.run(90)

	pos := r.ctrl.Transform().Position
	if got := r.camera.Position.Sub(pos); got.Distance(offset) > 0.001 {
		t.Errorf("expected camera offset %v, got %v", offset, got)
	}
	wantTarget := pos.Add(math.Vec3{Y: 1})
	if r.camera.Target.Distance(wantTarget) > 0.0001 {
		t.Errorf("expected target %v, got %v", wantTarget, r.camera.Target)
	}
}

func TestTurnConvergesWithoutOvershoot(t *testing.T) {
	r := newRig(t)
	r.keys.SetPressed(input.KeyBack, true)
	r.keys.SetPressed(input.KeyRight, true)

	// Camera sits on +Z, so the target facing is 0 + Pi/4.
	target := math.QuatFromYaw(gomath.Pi / 4)
	prev := r.ctrl.Transform().Rotation.AngleTo(target)

	// Past ~25 frames the remaining angle is below float32 resolution of AngleTo.
	for i := 0; i < 25; i++ {
		r.ctrl.Update(frame, r.keys)
		angle := r.ctrl.Transform().Rotation.AngleTo(target)
		if angle > prev+1e-4 {
			t.Fatalf("frame %d: angle grew from %v to %v", i, prev, angle)
		}
		// A damping step removes a fixed fraction, never more than the remaining angle.
		if want := prev * (1 - DefaultTuning().TurnDamping); angle < want-1e-3 {
			t.Fatalf("frame %d: stepped past damping fraction, %v < %v", i, angle, want)
		}
		prev = angle
	}

	r.run(60)
	if yaw := r.ctrl.Transform().Rotation.Yaw(); gomath.Abs(float64(yaw-gomath.Pi/4)) > 0.001 {
		t.Errorf("expected yaw to converge on Pi/4, got %v", yaw)
	}
}

func TestJumpHoldsUntilReleased(t *testing.T) {
	r := newRig(t)
	r.keys.SetPressed(input.KeyJump, true)

	r.run(300) // five seconds, well past the one second clip

	if r.ctrl.Current() != ClipJump {
		t.Fatalf("expected Jump while held, got %v", r.ctrl.Current())
	}
	jump := r.action(t, ClipJump)
	if !jump.Finished() || jump.Weight() != 1 {
		t.Errorf("expected Jump clamped at full weight, finished=%v weight=%v", jump.Finished(), jump.Weight())
	}

	r.keys.SetPressed(input.KeyJump, false)
	r.ctrl.Update(frame, r.keys)
	if r.ctrl.Current() != ClipIdle {
		t.Errorf("expected Idle after release, got %v", r.ctrl.Current())
	}
}

func TestSpecialAction(t *testing.T) {
	r := newRig(t)
	r.keys.SetPressed(input.KeySpecial, true)
	r.ctrl.Update(frame, r.keys)

	if r.ctrl.Current() != ClipSpecialAction {
		t.Errorf("expected SpecialAction, got %v", r.ctrl.Current())
	}
	if pos := r.ctrl.Transform().Position; pos != (math.Vec3{}) {
		t.Errorf("expected no movement outside Walk, got %v", pos)
	}
}

func TestMissingClipIsNoop(t *testing.T) {
	r := newRig(t, ClipIdle, ClipJump)
	r.keys.SetPressed(input.KeyForward, true)

	r.run(10)

	if r.ctrl.Current() != ClipWalk {
		t.Errorf("expected Walk state even without a Walk clip, got %v", r.ctrl.Current())
	}
	if _, ok := r.mixer.Action(ClipWalk.String()); ok {
		t.Error("expected no Walk action to be created")
	}
	if r.ctrl.Transform().Position.Z >= 0 {
		t.Error("expected the model to keep walking")
	}
}

func TestNoClipsAtAll(t *testing.T) {
	mixer := animation.NewMixer()
	cam := camera.NewOrbitCamera()
	ctrl := NewController(NewTransform(), mixer, nil, cam, DefaultTuning())

	keys := input.NewState()
	keys.SetPressed(input.KeyJump, true)
	ctrl.Update(frame, keys)

	if ctrl.Current() != ClipJump {
		t.Errorf("expected Jump, got %v", ctrl.Current())
	}
}

func TestClipNameString(t *testing.T) {
	want := map[ClipName]string{
		ClipIdle:          "Idle",
		ClipWalk:          "Walk",
		ClipJump:          "Jump",
		ClipSpecialAction: "SpecialAction",
		ClipName(42):      "Unknown",
	}
	for c, s := range want {
		if c.String() != s {
			t.Errorf("expected %q, got %q", s, c.String())
		}
	}
}
