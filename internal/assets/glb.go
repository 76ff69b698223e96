package assets

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	gomath "math"
	"os"

	"github.com/Faultbox/charview/internal/engine/animation"
)

// Binary glTF container layout.
const (
	glbMagic        = 0x46546C67 // "glTF"
	glbVersion      = 2
	glbHeaderSize   = 12
	chunkHeaderSize = 8
	chunkTypeJSON   = 0x4E4F534A // "JSON"
	chunkTypeBIN    = 0x004E4942 // "BIN\0"

	componentFloat = 5126
)

// RestPoseClip is the bind-pose clip exporters add to rigs. It is never played.
const RestPoseClip = "TPose"

var (
	ErrInvalidGLB  = errors.New("invalid GLB container")
	ErrNoJSONChunk = errors.New("GLB file missing JSON chunk")
)

type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Accessors   []gltfAccessor   `json:"accessors"`
	BufferViews []gltfBufferView `json:"bufferViews"`
	Animations  []gltfAnimation  `json:"animations"`
}

type gltfAccessor struct {
	BufferView    *int      `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max"`
}

type gltfBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

type gltfAnimation struct {
	Name     string `json:"name"`
	Samplers []struct {
		Input         int    `json:"input"`
		Output        int    `json:"output"`
		Interpolation string `json:"interpolation"`
	} `json:"samplers"`
}

// ReadClips reads the playable animation clips of a .glb or .gltf file.
func ReadClips(path string) ([]animation.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	clips, err := ParseClips(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return clips, nil
}

// ParseClips extracts animation clips from binary glTF, or from plain glTF
// JSON when the data does not start with the GLB magic. The rest pose clip
// is dropped. A clip lasts until its latest keyframe across all samplers.
func ParseClips(data []byte) ([]animation.Clip, error) {
	jsonChunk, bin := data, []byte(nil)
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic {
		var err error
		jsonChunk, bin, err = splitGLB(data)
		if err != nil {
			return nil, err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, fmt.Errorf("decoding glTF JSON: %w", err)
	}

	clips := make([]animation.Clip, 0, len(doc.Animations))
	for i, anim := range doc.Animations {
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", i)
		}
		if name == RestPoseClip {
			continue
		}

		var duration float32
		for s, sampler := range anim.Samplers {
			end, err := doc.inputEnd(sampler.Input, bin)
			if err != nil {
				return nil, fmt.Errorf("animation %q sampler %d: %w", name, s, err)
			}
			duration = max(duration, end)
		}
		clips = append(clips, animation.Clip{Name: name, Duration: duration})
	}
	return clips, nil
}

// splitGLB validates the container header and returns the JSON and
// optional BIN chunk payloads.
func splitGLB(data []byte) (jsonChunk, bin []byte, err error) {
	if len(data) < glbHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidGLB, len(data))
	}

	var header struct {
		Magic   uint32
		Version uint32
		Length  uint32
	}
	if err := binary.Read(bytes.NewReader(data[:glbHeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGLB, err)
	}
	if header.Version != glbVersion {
		return nil, nil, fmt.Errorf("%w: version %d, want %d", ErrInvalidGLB, header.Version, glbVersion)
	}
	if int(header.Length) > len(data) {
		return nil, nil, fmt.Errorf("%w: declared length %d exceeds %d bytes", ErrInvalidGLB, header.Length, len(data))
	}

	offset := glbHeaderSize
	end := int(header.Length)
	for offset+chunkHeaderSize <= end {
		chunkLen := int(binary.LittleEndian.Uint32(data[offset:]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4:])
		offset += chunkHeaderSize
		if chunkLen < 0 || offset+chunkLen > end {
			return nil, nil, fmt.Errorf("%w: chunk of %d bytes overruns file", ErrInvalidGLB, chunkLen)
		}
		payload := data[offset : offset+chunkLen]
		switch chunkType {
		case chunkTypeJSON:
			if jsonChunk == nil {
				jsonChunk = payload
			}
		case chunkTypeBIN:
			if bin == nil {
				bin = payload
			}
		}
		offset += chunkLen
	}

	if jsonChunk == nil {
		return nil, nil, ErrNoJSONChunk
	}
	return jsonChunk, bin, nil
}

// inputEnd returns the last keyframe time of a sampler input accessor.
// Exporters are required to write accessor bounds for animation inputs; when
// they are missing the times are scanned from the binary chunk instead.
func (d *gltfDocument) inputEnd(index int, bin []byte) (float32, error) {
	if index < 0 || index >= len(d.Accessors) {
		return 0, fmt.Errorf("input accessor %d out of range", index)
	}
	acc := d.Accessors[index]
	if len(acc.Max) > 0 {
		return acc.Max[0], nil
	}
	if acc.BufferView == nil || bin == nil {
		return 0, nil
	}
	if acc.ComponentType != componentFloat || acc.Type != "SCALAR" {
		return 0, fmt.Errorf("input accessor %d is not SCALAR FLOAT: type=%s, componentType=%d",
			index, acc.Type, acc.ComponentType)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(d.BufferViews) {
		return 0, fmt.Errorf("buffer view %d out of range", *acc.BufferView)
	}

	view := d.BufferViews[*acc.BufferView]
	stride := view.ByteStride
	if stride == 0 {
		stride = 4
	}
	if view.ByteOffset < 0 || acc.ByteOffset < 0 || stride < 4 || acc.Count < 0 {
		return 0, fmt.Errorf("%w: input accessor %d has negative offset, count or stride", ErrInvalidGLB, index)
	}
	start := view.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && (start > len(bin)-4 || acc.Count-1 > (len(bin)-4-start)/stride) {
		return 0, fmt.Errorf("%w: input accessor %d overruns binary chunk", ErrInvalidGLB, index)
	}

	var end float32
	for i := 0; i < acc.Count; i++ {
		bits := binary.LittleEndian.Uint32(bin[start+i*stride:])
		end = max(end, gomath.Float32frombits(bits))
	}
	return end, nil
}
