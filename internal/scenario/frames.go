package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/hwcfilter/content"
)

// file is the YAML layout of a frame sequence.
type file struct {
	Frames []frameDoc `yaml:"frames"`
}

type frameDoc struct {
	Displays []displayDoc `yaml:"displays"`
}

type displayDoc struct {
	ID              uint32     `yaml:"id"`
	Name            string     `yaml:"name"`
	Enabled         *bool      `yaml:"enabled"`
	Frame           uint32     `yaml:"frame"`
	GeometryChanged bool       `yaml:"geometry_changed"`
	Width           int        `yaml:"width"`
	Height          int        `yaml:"height"`
	Format          string     `yaml:"format"`
	Layers          []layerDoc `yaml:"layers"`
}

type layerDoc struct {
	ID        uint64    `yaml:"id"`
	Name      string    `yaml:"name"`
	Dst       []int     `yaml:"dst"`
	Src       []float64 `yaml:"src"`
	Visible   [][]int   `yaml:"visible"`
	Transform string    `yaml:"transform"`
	Blending  string    `yaml:"blending"`
	Alpha     *float32  `yaml:"alpha"`
	Format    string    `yaml:"format"`
	Buffer    uint64    `yaml:"buffer"`
	Fence     *int      `yaml:"fence"`
}

var formats = map[string]gputypes.TextureFormat{
	"":           gputypes.TextureFormatUndefined,
	"undefined":  gputypes.TextureFormatUndefined,
	"rgba8unorm": gputypes.TextureFormatRGBA8Unorm,
	"bgra8unorm": gputypes.TextureFormatBGRA8Unorm,
	"r8unorm":    gputypes.TextureFormatR8Unorm,
}

var blendings = map[string]content.Blending{
	"":         content.BlendNone,
	"none":     content.BlendNone,
	"premult":  content.BlendPremult,
	"coverage": content.BlendCoverage,
}

// DecodeFrames parses a YAML frame sequence:
//
//	frames:
//	  - displays:
//	      - id: 0
//	        frame: 1
//	        width: 1920
//	        height: 1080
//	        layers:
//	          - id: 1
//	            dst: [0, 0, 1920, 1080]
//	            visible: [[0, 0, 960, 1080]]
//
// Displays default to enabled. A layer's src defaults to the size of dst,
// visible to dst itself, and alpha to 1.
func DecodeFrames(data []byte) ([]*content.Content, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scenario: decode frames: %w", err)
	}

	frames := make([]*content.Content, 0, len(f.Frames))
	for i, fs := range f.Frames {
		c := content.New()
		for _, ds := range fs.Displays {
			d, err := ds.display()
			if err != nil {
				return nil, fmt.Errorf("scenario: frame %d display %d: %w", i, ds.ID, err)
			}
			c.Displays = append(c.Displays, d)
		}
		frames = append(frames, c)
	}
	return frames, nil
}

// LoadFrames reads and parses the frame sequence at path.
func LoadFrames(path string) ([]*content.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return DecodeFrames(data)
}

func (ds displayDoc) display() (content.Display, error) {
	format, ok := formats[ds.Format]
	if !ok {
		return content.Display{}, fmt.Errorf("unknown format %q", ds.Format)
	}

	layers := make([]*content.Layer, 0, len(ds.Layers))
	for _, ls := range ds.Layers {
		l, err := ls.layer(ds.Frame)
		if err != nil {
			return content.Display{}, fmt.Errorf("layer %d: %w", ls.ID, err)
		}
		layers = append(layers, l)
	}

	enabled := true
	if ds.Enabled != nil {
		enabled = *ds.Enabled
	}
	return content.Display{
		ID:              ds.ID,
		Name:            ds.Name,
		Enabled:         enabled,
		FrameIndex:      ds.Frame,
		GeometryChanged: ds.GeometryChanged,
		Width:           ds.Width,
		Height:          ds.Height,
		Format:          format,
		Stack:           content.NewLayerStack(layers...),
	}, nil
}

func (ls layerDoc) layer(frame uint32) (*content.Layer, error) {
	dst, err := rect(ls.Dst)
	if err != nil {
		return nil, fmt.Errorf("dst: %w", err)
	}

	src := content.FRect{Right: float64(dst.Width()), Bottom: float64(dst.Height())}
	if ls.Src != nil {
		if len(ls.Src) != 4 {
			return nil, fmt.Errorf("src: want 4 values, got %d", len(ls.Src))
		}
		src = content.FRect{Left: ls.Src[0], Top: ls.Src[1], Right: ls.Src[2], Bottom: ls.Src[3]}
	}

	visible := []content.Rect{dst}
	if ls.Visible != nil {
		visible = visible[:0]
		for _, v := range ls.Visible {
			r, err := rect(v)
			if err != nil {
				return nil, fmt.Errorf("visible: %w", err)
			}
			visible = append(visible, r)
		}
	}
	if len(visible) == 0 {
		return nil, errors.New("visible: at least one region required")
	}

	tr, err := content.ParseTransform(ls.Transform)
	if err != nil {
		return nil, err
	}
	blend, ok := blendings[ls.Blending]
	if !ok {
		return nil, fmt.Errorf("unknown blending %q", ls.Blending)
	}
	format, ok := formats[ls.Format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", ls.Format)
	}
	alpha := float32(1)
	if ls.Alpha != nil {
		alpha = *ls.Alpha
	}
	fence := content.NoFence
	if ls.Fence != nil {
		fence = *ls.Fence
	}

	return &content.Layer{
		ID:             ls.ID,
		Name:           ls.Name,
		Format:         format,
		Transform:      tr,
		Blending:       blend,
		PlaneAlpha:     alpha,
		Src:            src,
		Dst:            dst,
		VisibleRegions: visible,
		FrameIndex:     frame,
		AcquireFence:   fence,
		Buffer:         ls.Buffer,
	}, nil
}

func rect(v []int) (content.Rect, error) {
	if len(v) != 4 {
		return content.Rect{}, fmt.Errorf("want 4 values, got %d", len(v))
	}
	return content.R(v[0], v[1], v[2], v[3]), nil
}
