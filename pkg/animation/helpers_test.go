package animation

import (
	"github.com/gonewx/actoranim/pkg/binio"
	"github.com/gonewx/actoranim/pkg/scene"
)

// stubCurves reads a single float64 of control data and binds a constant
// curve when accept is set.
type stubCurves struct {
	accept bool
	value  float32
	bound  []Segment
}

func (s *stubCurves) ReadControl(r *binio.Reader, kind InterpolationType) (CurveControl, error) {
	f, err := r.ReadFloat64()
	return CurveControl{InFactor: f}, err
}

func (s *stubCurves) Bind(seg Segment) (Curve, bool) {
	s.bound = append(s.bound, seg)
	if !s.accept || !seg.Kind.IsCurve() {
		return nil, false
	}
	return constCurve(s.value), true
}

type constCurve float32

func (c constCurve) Value(float32) float32 { return float32(c) }

// numericFrame describes one encoded numeric keyframe.
type numericFrame struct {
	time  float64
	kind  InterpolationType
	value float32
}

// encodeNumericTrack writes a count-prefixed numeric track in the layout the
// stub interpolator reads.
func encodeNumericTrack(frames ...numericFrame) []byte {
	w := &binio.Writer{}
	w.WriteUint16(uint16(len(frames)))
	for _, f := range frames {
		w.WriteFloat64(f.time).WriteUint8(uint8(f.kind))
		if f.kind.hasControl() {
			w.WriteFloat64(0.25)
		}
		w.WriteFloat32(f.value)
	}
	return w.Bytes()
}

// newDrawOrderActor returns a graph with n nodes where the given indices are
// images and the rest plain nodes.
func newDrawOrderActor(n int, images ...int) *scene.Graph {
	isImage := make(map[int]bool)
	for _, i := range images {
		isImage[i] = true
	}
	g := scene.NewGraph()
	for i := 0; i < n; i++ {
		if isImage[i] {
			img := scene.NewImage("image", nil, nil, nil)
			img.SetDrawOrder(-1)
			g.Add(img, scene.NoParent)
		} else {
			g.Add(scene.NewNode("node"), scene.NoParent)
		}
	}
	return g
}
