// Package animation decodes keyframe tracks and evaluates them onto scene
// nodes.
//
// A track is an ordered list of keyframes for one (node, property) pair. The
// playback driver locates the keyframes bracketing the current time and calls
// Apply or ApplyInterpolation, which write the blended result into the node.
// Tracks are read-only once linked, so one track may drive many nodes
// concurrently as long as each node has a single writer per frame.
package animation

import (
	"github.com/gonewx/actoranim/pkg/math2d"
	"github.com/gonewx/actoranim/pkg/scene"
)

// DrawOrderEntry assigns render order Order to the image at NodeIndex.
type DrawOrderEntry struct {
	NodeIndex uint16
	Order     uint16
}

// KeyFrame is one sample of one animated property. The property selects
// which payload is meaningful:
//
//   - numeric properties use Value and the interpolation fields
//   - PropertyDrawOrder uses DrawOrder and is never interpolated
//   - PropertyVertexDeform uses Vertices and is interpolated linearly
type KeyFrame struct {
	time          float32
	property      Property
	interpolation InterpolationType
	progression   ProgressionPolicy

	control    CurveControl
	hasControl bool
	// curve is set by the link pass only when binding succeeded.
	curve Curve

	value     float32
	drawOrder []DrawOrderEntry
	vertices  []float32
}

// NewNumericKeyFrame returns a keyframe for a scalar property. Curve kinds
// built this way carry no control data and evaluate linearly.
func NewNumericKeyFrame(p Property, time float32, kind InterpolationType, value float32) KeyFrame {
	return KeyFrame{time: time, property: p, interpolation: kind, value: value}
}

// NewDrawOrderKeyFrame returns a draw order keyframe.
func NewDrawOrderKeyFrame(time float32, entries []DrawOrderEntry) KeyFrame {
	return KeyFrame{time: time, property: PropertyDrawOrder, drawOrder: entries}
}

// NewVertexDeformKeyFrame returns a vertex deform keyframe holding flattened
// x,y pairs.
func NewVertexDeformKeyFrame(time float32, kind InterpolationType, vertices []float32) KeyFrame {
	return KeyFrame{time: time, property: PropertyVertexDeform, interpolation: kind, vertices: vertices}
}

// WithControl returns a copy of k carrying curve control data.
func (k KeyFrame) WithControl(c CurveControl) KeyFrame {
	k.control = c
	k.hasControl = true
	k.curve = nil
	return k
}

func (k *KeyFrame) Time() float32                        { return k.time }
func (k *KeyFrame) Property() Property                   { return k.property }
func (k *KeyFrame) InterpolationType() InterpolationType { return k.interpolation }

// Value returns the sample of a numeric keyframe.
func (k *KeyFrame) Value() float32 { return k.value }

// DrawOrder returns the entries of a draw order keyframe.
func (k *KeyFrame) DrawOrder() []DrawOrderEntry { return k.drawOrder }

// Vertices returns the flattened x,y pairs of a vertex deform keyframe.
func (k *KeyFrame) Vertices() []float32 { return k.vertices }

// Control returns the curve control data read with the keyframe.
func (k *KeyFrame) Control() (CurveControl, bool) { return k.control, k.hasControl }

// Curve returns the bound curve, nil when none survived linking.
func (k *KeyFrame) Curve() Curve { return k.curve }

// Apply writes this keyframe's value into node, blended by mix.
func (k *KeyFrame) Apply(node scene.Node, mix float32) {
	switch k.property {
	case PropertyDrawOrder:
		k.applyDrawOrder(node)
	case PropertyVertexDeform:
		k.applyDeform(node, k.vertices, nil, 0, mix)
	default:
		setNumeric(node, k.property, k.value, mix)
	}
}

// ApplyInterpolation writes the value at time inside the segment starting
// at k and ending at next, blended by mix.
func (k *KeyFrame) ApplyInterpolation(node scene.Node, time float32, next *KeyFrame, mix float32) {
	switch k.property {
	case PropertyDrawOrder:
		k.applyDrawOrder(node)
	case PropertyVertexDeform:
		if next == nil || len(next.vertices) != len(k.vertices) {
			k.applyDeform(node, k.vertices, nil, 0, mix)
			return
		}
		k.applyDeform(node, k.vertices, next.vertices, k.fraction(time, next), mix)
	default:
		if v, ok := k.numericAt(time, next); ok {
			setNumeric(node, k.property, v, mix)
		}
	}
}

// fraction returns the normalized position of time in [k, next). A segment
// without duration stays on k.
func (k *KeyFrame) fraction(time float32, next *KeyFrame) float32 {
	d := next.time - k.time
	if d <= 0 {
		return 0
	}
	return (time - k.time) / d
}

func (k *KeyFrame) lerp(time float32, next *KeyFrame) float32 {
	if next == nil || !next.property.IsNumeric() {
		return k.value
	}
	f := k.fraction(time, next)
	return k.value*(1-f) + next.value*f
}

// numericAt evaluates a numeric segment. The second result is false when
// the segment writes nothing.
func (k *KeyFrame) numericAt(time float32, next *KeyFrame) (float32, bool) {
	switch k.interpolation {
	case InterpolationHold:
		return k.value, true
	case InterpolationLinear:
		return k.lerp(time, next), true
	case InterpolationMirrored, InterpolationAsymmetric, InterpolationDisconnected:
		if k.curve != nil {
			return k.curve.Value(time), true
		}
		return k.lerp(time, next), true
	case InterpolationProgression:
		switch k.progression {
		case ProgressionHold:
			return k.value, true
		case ProgressionLinear:
			return k.lerp(time, next), true
		}
	}
	return 0, false
}

// TransformVertices maps every vertex of a deform keyframe through m in
// place. It is meant for load time, before the track is shared.
func (k *KeyFrame) TransformVertices(m *math2d.Mat2D) {
	var p math2d.Vec2D
	for i := 0; i+1 < len(k.vertices); i += 2 {
		math2d.TransformVec(&p, math2d.Vec2D{k.vertices[i], k.vertices[i+1]}, m)
		k.vertices[i], k.vertices[i+1] = p[0], p[1]
	}
}

func (k *KeyFrame) applyDrawOrder(node scene.Node) {
	actor := node.Actor()
	if actor == nil {
		return
	}
	for _, e := range k.drawOrder {
		n, ok := actor.NodeAt(int(e.NodeIndex))
		if !ok {
			continue
		}
		if img, ok := n.(scene.Image); ok {
			img.SetDrawOrder(int(e.Order))
		}
	}
}

// applyDeform blends from (or from lerped toward to by f) into the node's
// deformed vertex buffer.
func (k *KeyFrame) applyDeform(node scene.Node, from, to []float32, f, mix float32) {
	img, ok := node.(scene.Image)
	if !ok {
		return
	}
	buf := img.DeformedVertices()
	n := min(len(buf), len(from))
	fi := 1 - f
	for i := 0; i < n; i++ {
		v := from[i]
		if to != nil {
			v = from[i]*fi + to[i]*f
		}
		buf[i] = blend(buf[i], v, mix)
	}
	img.SetVertexDeformDirty(true)
}
