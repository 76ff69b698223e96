// Package renderer draws the viewer scene with OpenGL. The backdrop and
// textured floor go first, then a marker at the model node, then the
// on-screen buttons through ui2d.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/charview/internal/engine/shader"
	"github.com/Faultbox/charview/internal/engine/texture"
	"github.com/Faultbox/charview/internal/engine/ui2d"
	"github.com/Faultbox/charview/internal/logger"
	"github.com/Faultbox/charview/pkg/math"
)

const texturedVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 uMVP;
uniform float uUVScale;

out vec2 vUV;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vUV = aUV * uUVScale;
}
`

const texturedFragmentShader = `#version 410 core
in vec2 vUV;
uniform sampler2D uTexture;
out vec4 FragColor;

void main() {
	FragColor = texture(uTexture, vUV);
}
`

const flatVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const flatFragmentShader = `#version 410 core
uniform vec4 uColor;
out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

type mesh struct {
	vao, vbo uint32
	count    int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	texturedProgram uint32
	locTexMVP       int32
	locTexUVScale   int32
	locTexSampler   int32

	flatProgram  uint32
	locFlatMVP   int32
	locFlatColor int32

	floor    mesh
	backdrop mesh
	cube     mesh

	ui *ui2d.Renderer

	backTex  uint32
	floorTex uint32
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.texturedProgram, err = shader.CompileProgram(texturedVertexShader, texturedFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("textured program: %w", err)
	}
	r.locTexMVP = shader.GetUniform(r.texturedProgram, "uMVP")
	r.locTexUVScale = shader.GetUniform(r.texturedProgram, "uUVScale")
	r.locTexSampler = shader.GetUniform(r.texturedProgram, "uTexture")

	r.flatProgram, err = shader.CompileProgram(flatVertexShader, flatFragmentShader)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("flat program: %w", err)
	}
	r.locFlatMVP = shader.GetUniform(r.flatProgram, "uMVP")
	r.locFlatColor = shader.GetUniform(r.flatProgram, "uColor")

	half := float32(FloorSize) / 2
	r.floor = uploadMesh([]float32{
		-half, 0, -half, 0, 0,
		half, 0, -half, 1, 0,
		half, 0, half, 1, 1,
		-half, 0, -half, 0, 0,
		half, 0, half, 1, 1,
		-half, 0, half, 0, 1,
	}, true)
	r.backdrop = uploadMesh([]float32{
		-1, -1, 0, 0, 0,
		1, -1, 0, 1, 0,
		1, 1, 0, 1, 1,
		-1, -1, 0, 0, 0,
		1, 1, 0, 1, 1,
		-1, 1, 0, 0, 1,
	}, true)
	r.cube = uploadMesh(cubeVertices(), false)

	r.ui, err = ui2d.New(cfg.Width, cfg.Height)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("overlay: %w", err)
	}

	grey := texture.Solid(color.RGBA{R: 90, G: 90, B: 100, A: 255})
	r.floorTex = uploadTexture(grey)
	r.backTex = uploadTexture(texture.Solid(color.RGBA{R: 26, G: 26, B: 38, A: 255}))

	logger.Debug("renderer ready",
		zap.Uint32("textured_program", r.texturedProgram),
		zap.Uint32("flat_program", r.flatProgram),
	)
	return r, nil
}

// SetScenery replaces the backdrop and floor textures. A nil image keeps
// the current texture.
func (r *Renderer) SetScenery(back, floor *image.RGBA) {
	if back != nil {
		gl.DeleteTextures(1, &r.backTex)
		r.backTex = uploadTexture(back)
	}
	if floor != nil {
		gl.DeleteTextures(1, &r.floorTex)
		r.floorTex = uploadTexture(floor)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// DrawFrame renders f into the current framebuffer.
func (r *Renderer) DrawFrame(f Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	// Backdrop fills the screen behind everything.
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(r.texturedProgram)
	identity := math.Identity()
	r.drawTextured(r.backdrop, r.backTex, identity, 1)
	gl.Enable(gl.DEPTH_TEST)

	viewProj := f.Projection.Mul(f.View)
	r.drawTextured(r.floor, r.floorTex, viewProj, FloorRepeats)

	gl.UseProgram(r.flatProgram)
	if f.HasModel {
		tint := ClipTint(f.Clip)
		for _, p := range markerParts {
			mvp := viewProj.Mul(p.matrix(f.Model))
			gl.UniformMatrix4fv(r.locFlatMVP, 1, false, mvp.Ptr())
			gl.Uniform4f(r.locFlatColor, tint[0]*p.shade, tint[1]*p.shade, tint[2]*p.shade, 1)
			r.drawMesh(r.cube)
		}
	}

	gl.UseProgram(0)

	r.ui.Resize(f.Width, f.Height)
	r.ui.Begin()
	drawButtons(r.ui, f.Buttons, f.Held)
	r.ui.End()
}

func (r *Renderer) drawTextured(m mesh, tex uint32, mvp math.Mat4, uvScale float32) {
	gl.UniformMatrix4fv(r.locTexMVP, 1, false, mvp.Ptr())
	gl.Uniform1f(r.locTexUVScale, uvScale)
	gl.Uniform1i(r.locTexSampler, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	r.drawMesh(m)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *Renderer) drawMesh(m mesh) {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	gl.BindVertexArray(0)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// Close releases GL resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.ui != nil {
		r.ui.Close()
	}
	for _, m := range []*mesh{&r.floor, &r.backdrop, &r.cube} {
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
		}
		if m.vbo != 0 {
			gl.DeleteBuffers(1, &m.vbo)
		}
	}
	for _, tex := range []*uint32{&r.backTex, &r.floorTex} {
		if *tex != 0 {
			gl.DeleteTextures(1, tex)
		}
	}
	if r.texturedProgram != 0 {
		gl.DeleteProgram(r.texturedProgram)
	}
	if r.flatProgram != 0 {
		gl.DeleteProgram(r.flatProgram)
	}
}

// uploadMesh creates a VAO from interleaved positions, plus UVs when
// textured is set.
func uploadMesh(vertices []float32, textured bool) mesh {
	stride := int32(3)
	if textured {
		stride = 5
	}

	var m mesh
	m.count = int32(len(vertices)) / stride

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride*4, nil)
	gl.EnableVertexAttribArray(0)
	if textured {
		gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride*4, unsafe.Pointer(uintptr(3*4)))
		gl.EnableVertexAttribArray(1)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return m
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

// cubeVertices returns a unit cube centered on the origin as 36 positions.
func cubeVertices() []float32 {
	corners := [8][3]float32{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	faces := [6][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}

	out := make([]float32, 0, 36*3)
	for _, f := range faces {
		for _, i := range []int{f[0], f[1], f[2], f[0], f[2], f[3]} {
			out = append(out, corners[i][:]...)
		}
	}
	return out
}
