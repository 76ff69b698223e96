package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay palette.
var (
	ColorWhite        = Color{1, 1, 1, 1}
	ColorButtonNormal = Color{0.15, 0.15, 0.2, 0.6}
	ColorButtonBorder = Color{0.3, 0.3, 0.4, 0.9}
	ColorButtonActive = Color{0.1, 0.3, 0.5, 0.85}
	ColorText         = Color{0.9, 0.9, 0.9, 1}
)

// Lighten moves the color toward white by factor.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}
