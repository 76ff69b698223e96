package renderer

import (
	"github.com/Faultbox/charview/internal/engine/input"
	"github.com/Faultbox/charview/internal/engine/ui2d"
	"github.com/Faultbox/charview/pkg/math"
)

// Floor dimensions in world units and texture repeats across it.
const (
	FloorSize    = 50
	FloorRepeats = 10
)

// Frame is everything the renderer needs for one frame.
type Frame struct {
	Width, Height int

	View       math.Mat4
	Projection math.Mat4

	HasModel bool
	Model    math.Mat4 // model node world transform
	Clip     string    // playing clip, selects the marker tint

	Buttons []input.Button
	Held    string
}

// ModelMatrix composes a node transform: translate, then rotate.
func ModelMatrix(position math.Vec3, rotation math.Quat) math.Mat4 {
	return math.Translate(position.X, position.Y, position.Z).Mul(rotation.ToMat4())
}

// part is one box of the model marker, in model space.
type part struct {
	offset math.Vec3
	size   math.Vec3
	shade  float32
}

// markerParts stand in for the skinned mesh: a body and a nose on the +Z
// side, so facing is visible.
var markerParts = []part{
	{offset: math.Vec3{Y: 0.9}, size: math.Vec3{X: 0.6, Y: 1.8, Z: 0.35}, shade: 1},
	{offset: math.Vec3{Y: 1.5, Z: 0.25}, size: math.Vec3{X: 0.2, Y: 0.2, Z: 0.3}, shade: 0.6},
}

func (p part) matrix(model math.Mat4) math.Mat4 {
	return model.
		Mul(math.Translate(p.offset.X, p.offset.Y, p.offset.Z)).
		Mul(math.Scale(p.size.X, p.size.Y, p.size.Z))
}

var clipTints = map[string][3]float32{
	"Idle":          {0.75, 0.75, 0.8},
	"Walk":          {0.35, 0.7, 0.4},
	"Jump":          {0.35, 0.5, 0.9},
	"SpecialAction": {0.9, 0.55, 0.25},
}

// ClipTint returns the marker color for a clip name.
func ClipTint(clip string) [3]float32 {
	if c, ok := clipTints[clip]; ok {
		return c
	}
	return [3]float32{0.6, 0.6, 0.6}
}

// Label scale for the overlay buttons.
const labelScale = 2

// buttonStyle is how one overlay button is painted.
type buttonStyle struct {
	fill, border, label ui2d.Color
}

// styleButton lights up the held button.
func styleButton(b input.Button, held string) buttonStyle {
	if b.Key == held {
		return buttonStyle{
			fill:   ui2d.ColorButtonActive,
			border: ui2d.ColorButtonBorder.Lighten(0.5),
			label:  ui2d.ColorWhite,
		}
	}
	return buttonStyle{
		fill:   ui2d.ColorButtonNormal,
		border: ui2d.ColorButtonBorder,
		label:  ui2d.ColorText,
	}
}

// drawButtons queues the overlay into ui.
func drawButtons(ui *ui2d.Renderer, buttons []input.Button, held string) {
	for _, b := range buttons {
		st := styleButton(b, held)
		ui.DrawPanel(b.X, b.Y, b.W, b.H, st.fill, st.border)
		ui.DrawTextCentered(b.X, b.Y, b.W, b.H, b.Label, labelScale, st.label)
	}
}
