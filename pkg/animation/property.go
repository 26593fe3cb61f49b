package animation

import (
	"fmt"

	"github.com/gonewx/actoranim/pkg/scene"
)

// Property identifies the animated property of a track. The numeric values
// are the stream codes.
type Property uint8

const (
	PropertyUnknown Property = iota
	PropertyPosX
	PropertyPosY
	PropertyScaleX
	PropertyScaleY
	PropertyRotation
	PropertyOpacity
	PropertyDrawOrder
	PropertyLength
	PropertyVertexDeform
)

var propertyNames = [...]string{
	PropertyUnknown:      "unknown",
	PropertyPosX:         "posx",
	PropertyPosY:         "posy",
	PropertyScaleX:       "scalex",
	PropertyScaleY:       "scaley",
	PropertyRotation:     "rotation",
	PropertyOpacity:      "opacity",
	PropertyDrawOrder:    "draworder",
	PropertyLength:       "length",
	PropertyVertexDeform: "vertexdeform",
}

func (p Property) String() string {
	if p <= PropertyVertexDeform {
		return propertyNames[p]
	}
	return fmt.Sprintf("property(%d)", uint8(p))
}

// ParseProperty returns the property named s, as printed by String.
func ParseProperty(s string) (Property, error) {
	for p, name := range propertyNames {
		if Property(p) != PropertyUnknown && name == s {
			return Property(p), nil
		}
	}
	return PropertyUnknown, fmt.Errorf("unknown property '%s'", s)
}

// Valid reports whether p names an animatable property.
func (p Property) Valid() bool {
	return p > PropertyUnknown && p <= PropertyVertexDeform
}

// IsNumeric reports whether keyframes of p carry a single scalar value.
func (p Property) IsNumeric() bool {
	return p.Valid() && p != PropertyDrawOrder && p != PropertyVertexDeform
}

// interpolated reports whether keyframes of p carry an interpolation code.
func (p Property) interpolated() bool {
	return p.IsNumeric() || p == PropertyVertexDeform
}

// blend mixes value into current: mix 0 keeps current, mix 1 replaces it.
func blend(current, value, mix float32) float32 {
	switch mix {
	case 0:
		return current
	case 1:
		return value
	}
	return current*(1-mix) + value*mix
}

type numericAccessor struct {
	get func(scene.Node) float32
	set func(scene.Node, float32)
}

// numericAccessors maps numeric properties to node accessors. Length only
// exists on bones; other nodes get a no-op.
var numericAccessors = [...]numericAccessor{
	PropertyPosX:     {scene.Node.X, scene.Node.SetX},
	PropertyPosY:     {scene.Node.Y, scene.Node.SetY},
	PropertyScaleX:   {scene.Node.ScaleX, scene.Node.SetScaleX},
	PropertyScaleY:   {scene.Node.ScaleY, scene.Node.SetScaleY},
	PropertyRotation: {scene.Node.Rotation, scene.Node.SetRotation},
	PropertyOpacity:  {scene.Node.Opacity, scene.Node.SetOpacity},
	PropertyLength: {
		get: func(n scene.Node) float32 {
			if b, ok := n.(scene.Bone); ok {
				return b.Length()
			}
			return 0
		},
		set: func(n scene.Node, v float32) {
			if b, ok := n.(scene.Bone); ok {
				b.SetLength(v)
			}
		},
	},
}

// setNumeric blends value into property p of node.
func setNumeric(node scene.Node, p Property, value, mix float32) {
	if !p.IsNumeric() {
		return
	}
	acc := numericAccessors[p]
	if acc.set == nil {
		return
	}
	acc.set(node, blend(acc.get(node), value, mix))
}

// NumericValue reads property p from node. ok is false for properties that
// are not numeric.
func NumericValue(node scene.Node, p Property) (v float32, ok bool) {
	if !p.IsNumeric() || numericAccessors[p].get == nil {
		return 0, false
	}
	return numericAccessors[p].get(node), true
}
