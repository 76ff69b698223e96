package ui2d

import (
	"image"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII is baked into the atlas; anything else renders as '?'.
const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	atlasColumns = 16
	fallback     = '?'
)

// Font is a fixed-width bitmap font packed into a single atlas.
type Font struct {
	face  *basicfont.Face
	atlas *image.RGBA
	cellW int
	cellH int
	rows  int
	texID uint32
}

// NewFont rasterizes the built-in 7x13 face. The atlas lives in memory
// until Upload is called with a current GL context.
func NewFont() *Font {
	face := basicfont.Face7x13
	count := int(lastGlyph-firstGlyph) + 1
	f := &Font{
		face:  face,
		cellW: face.Advance,
		cellH: face.Height,
		rows:  (count + atlasColumns - 1) / atlasColumns,
	}
	f.atlas = image.NewRGBA(image.Rect(0, 0, atlasColumns*f.cellW, f.rows*f.cellH))

	d := font.Drawer{Dst: f.atlas, Src: image.White, Face: face}
	for r := firstGlyph; r <= lastGlyph; r++ {
		x, y := f.cell(r)
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(r))
	}
	return f
}

func (f *Font) cell(r rune) (int, int) {
	i := int(r - firstGlyph)
	return (i % atlasColumns) * f.cellW, (i / atlasColumns) * f.cellH
}

// Upload creates the atlas texture.
func (f *Font) Upload() {
	b := f.atlas.Bounds()
	gl.GenTextures(1, &f.texID)
	gl.BindTexture(gl.TEXTURE_2D, f.texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&f.atlas.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// TextureID returns the atlas texture, 0 before Upload.
func (f *Font) TextureID() uint32 {
	return f.texID
}

// GlyphSize returns the cell size in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.cellW, f.cellH
}

// GetGlyphUV returns the atlas rectangle of r in texture coordinates.
func (f *Font) GetGlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = fallback
	}
	x, y := f.cell(r)
	b := f.atlas.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	return float32(x) / w, float32(y) / h, float32(x+f.cellW) / w, float32(y+f.cellH) / h
}

// MeasureText returns the size of text at the given scale. Lines split
// on '\n'.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	widest := 0
	for _, line := range lines {
		widest = max(widest, len([]rune(line)))
	}
	return float32(widest*f.cellW) * scale, float32(len(lines)*f.cellH) * scale
}

// Close deletes the atlas texture.
func (f *Font) Close() {
	if f.texID != 0 {
		gl.DeleteTextures(1, &f.texID)
		f.texID = 0
	}
}
