// Package valuecurve implements animation.CurveInterpolator with value/time
// cubic Bézier segments.
//
// A segment from (t0, v0) to (t1, v1) is the cubic through the control
// points (t0 + d*out, outValue) and (t1 - d*in, inValue), where d = t1 - t0,
// out/outValue come from the starting keyframe and in/inValue from the
// ending keyframe. Without an in-tangent on the ending keyframe the second
// control point is (t1 - d/3, v1). Evaluating at a time solves the curve's x
// polynomial for the Bézier parameter and returns the matching y.
package valuecurve

import (
	"math"

	"honnef.co/go/curve"

	"github.com/gonewx/actoranim/pkg/animation"
	"github.com/gonewx/actoranim/pkg/binio"
)

// rootEpsilon accepts parameter roots that land marginally outside [0, 1].
const rootEpsilon = 1e-7

// Interpolator reads tangent data and binds cubic segments.
type Interpolator struct{}

func New() *Interpolator {
	return &Interpolator{}
}

// ReadControl reads the in-tangent (float64 factor, float32 value) and, except
// for Hold keyframes, the out-tangent in the same layout.
func (Interpolator) ReadControl(r *binio.Reader, kind animation.InterpolationType) (animation.CurveControl, error) {
	var c animation.CurveControl
	var err error
	if c.InFactor, err = r.ReadFloat64(); err != nil {
		return c, err
	}
	if c.InValue, err = r.ReadFloat32(); err != nil {
		return c, err
	}
	if kind == animation.InterpolationHold {
		return c, nil
	}
	if c.OutFactor, err = r.ReadFloat64(); err != nil {
		return c, err
	}
	if c.OutValue, err = r.ReadFloat32(); err != nil {
		return c, err
	}
	return c, nil
}

// Bind builds the segment curve. Hold segments, empty segments and non-curve
// kinds are rejected.
func (Interpolator) Bind(seg animation.Segment) (animation.Curve, bool) {
	if !seg.Kind.IsCurve() {
		return nil, false
	}
	t0, t1 := float64(seg.StartTime), float64(seg.EndTime)
	d := t1 - t0
	if !(d > 0) {
		return nil, false
	}

	outTime := t0 + d*clamp01(seg.Control.OutFactor)
	outValue := float64(seg.Control.OutValue)

	inTime := t1 - d/3
	inValue := float64(seg.EndValue)
	if nc := seg.NextControl; nc != nil {
		inTime = t1 - d*clamp01(nc.InFactor)
		inValue = float64(nc.InValue)
	}

	return &Curve{
		bez: curve.CubicBez{
			P0: curve.Pt(t0, float64(seg.StartValue)),
			P1: curve.Pt(outTime, outValue),
			P2: curve.Pt(inTime, inValue),
			P3: curve.Pt(t1, float64(seg.EndValue)),
		},
	}, true
}

// Curve is one bound value/time segment.
type Curve struct {
	bez curve.CubicBez
}

// Value returns the curve's value at time, clamped to the segment.
func (c *Curve) Value(time float32) float32 {
	return float32(c.bez.Eval(c.param(float64(time))).Y)
}

// param solves x(t) = time for the Bézier parameter t. Control times are
// kept inside the segment, so x is monotonic and has one root in [0, 1].
func (c *Curve) param(time float64) float64 {
	x0, x3 := c.bez.P0.X, c.bez.P3.X
	switch {
	case time <= x0:
		return 0
	case time >= x3:
		return 1
	}

	x1, x2 := c.bez.P1.X, c.bez.P2.X
	c0 := x0 - time
	c1 := 3 * (x1 - x0)
	c2 := 3*x2 - 6*x1 + 3*x0
	c3 := x3 - 3*x2 + 3*x1 - x0

	roots, n := curve.SolveCubic(c0, c1, c2, c3)
	for _, t := range roots[:n] {
		if t >= -rootEpsilon && t <= 1+rootEpsilon {
			return math.Max(0, math.Min(1, t))
		}
	}
	// numerically lost, use the linear estimate
	return (time - x0) / (x3 - x0)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
