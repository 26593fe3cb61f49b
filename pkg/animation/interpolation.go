package animation

import (
	"fmt"
	"strings"

	"github.com/gonewx/actoranim/pkg/binio"
)

// InterpolationType selects how a keyframe's value evolves until the next
// keyframe. The numeric values are the stream codes.
type InterpolationType uint8

const (
	InterpolationHold InterpolationType = iota
	InterpolationLinear
	InterpolationMirrored
	InterpolationAsymmetric
	InterpolationDisconnected
	InterpolationProgression
)

var interpolationNames = [...]string{
	InterpolationHold:         "hold",
	InterpolationLinear:       "linear",
	InterpolationMirrored:     "mirrored",
	InterpolationAsymmetric:   "asymmetric",
	InterpolationDisconnected: "disconnected",
	InterpolationProgression:  "progression",
}

func (t InterpolationType) String() string {
	if t.Valid() {
		return interpolationNames[t]
	}
	return fmt.Sprintf("interpolation(%d)", uint8(t))
}

// Valid reports whether t is one of the defined codes.
func (t InterpolationType) Valid() bool {
	return t <= InterpolationProgression
}

// IsCurve reports whether t is evaluated through a bound Curve.
func (t InterpolationType) IsCurve() bool {
	return t == InterpolationMirrored || t == InterpolationAsymmetric || t == InterpolationDisconnected
}

// hasControl reports whether the stream carries curve control data for t.
// Hold frames carry an in-tangent that the previous segment may use.
func (t InterpolationType) hasControl() bool {
	return t == InterpolationHold || t.IsCurve()
}

// ProgressionPolicy decides what a Progression segment evaluates to. No
// progression curve implementation exists, so the segment either writes
// nothing or degrades to one of the implicit kinds.
type ProgressionPolicy uint8

const (
	ProgressionNone ProgressionPolicy = iota
	ProgressionHold
	ProgressionLinear
)

func (p ProgressionPolicy) String() string {
	switch p {
	case ProgressionNone:
		return "none"
	case ProgressionHold:
		return "hold"
	case ProgressionLinear:
		return "linear"
	}
	return fmt.Sprintf("progression(%d)", uint8(p))
}

// ParseProgressionPolicy parses "none", "hold" or "linear". An empty string
// selects ProgressionNone.
func ParseProgressionPolicy(s string) (ProgressionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ProgressionNone, nil
	case "hold":
		return ProgressionHold, nil
	case "linear":
		return ProgressionLinear, nil
	}
	return ProgressionNone, fmt.Errorf("unknown progression policy '%s', expected none, hold or linear", s)
}

// CurveControl is the tangent data stored with a curve-capable keyframe.
// Factors are fractions of the segment duration, values are absolute.
type CurveControl struct {
	InFactor  float64
	InValue   float32
	OutFactor float64
	OutValue  float32
}

// Segment describes the span between a keyframe and its successor for
// binding a curve.
type Segment struct {
	Kind    InterpolationType
	Control CurveControl

	StartTime  float32
	StartValue float32
	EndTime    float32
	EndValue   float32

	// NextControl is the successor's control data, nil when the successor
	// carries none.
	NextControl *CurveControl
}

// Curve is an eased value/time curve bound to one segment. Value must be a
// pure function of time.
type Curve interface {
	Value(time float32) float32
}

// CurveInterpolator reads curve control data from a track stream and binds
// it to segments once the successor keyframe is known.
type CurveInterpolator interface {
	// ReadControl consumes the control payload that follows the
	// interpolation code for kinds Hold, Mirrored, Asymmetric and
	// Disconnected.
	ReadControl(r *binio.Reader, kind InterpolationType) (CurveControl, error)

	// Bind validates seg and returns the curve to evaluate it with. A
	// false result discards the binding and the segment falls back to
	// implicit behavior.
	Bind(seg Segment) (Curve, bool)
}
