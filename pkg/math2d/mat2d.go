// Package math2d provides the 2x3 affine transform used to place bones,
// images and deformed vertices.
//
// Coefficients are stored as [a, b, c, d, tx, ty] and map a point with
//
//	x' = a*x + c*y + tx
//	y' = b*x + d*y + ty
//
// which is the same column layout as curve.Affine. Operations write into an
// output matrix that may alias any of the inputs.
package math2d

import (
	"honnef.co/go/curve"
)

// Mat2D is a 2x3 affine transform.
type Mat2D [6]float32

// Vec2D is a 2D vector or point.
type Vec2D [2]float32

// NewMat2D returns the identity transform.
func NewMat2D() Mat2D {
	return Mat2D{1, 0, 0, 1, 0, 0}
}

// Affine widens m to a curve.Affine.
func (m *Mat2D) Affine() curve.Affine {
	return curve.Affine{
		N0: float64(m[0]), N1: float64(m[1]),
		N2: float64(m[2]), N3: float64(m[3]),
		N4: float64(m[4]), N5: float64(m[5]),
	}
}

// FromAffine narrows aff into o.
func FromAffine(o *Mat2D, aff curve.Affine) {
	*o = Mat2D{
		float32(aff.N0), float32(aff.N1),
		float32(aff.N2), float32(aff.N3),
		float32(aff.N4), float32(aff.N5),
	}
}

// Identity resets o to the identity transform.
func Identity(o *Mat2D) {
	*o = NewMat2D()
}

// FromRotation sets o to a rotation of rad radians with no translation.
func FromRotation(o *Mat2D, rad float32) {
	FromAffine(o, curve.Rotate(float64(rad)))
}

// Scale scales the x column of a by v[0] and the y column by v[1], keeping
// the translation.
func Scale(o, a *Mat2D, v Vec2D) {
	FromAffine(o, a.Affine().PreScale(float64(v[0]), float64(v[1])))
}

// Multiply sets o to a*b, the transform that applies b first and then a.
func Multiply(o, a, b *Mat2D) {
	FromAffine(o, a.Affine().Mul(b.Affine()))
}

// Copy copies a into o.
func Copy(o, a *Mat2D) {
	*o = *a
}

// Invert sets o to the inverse of a. It reports false and leaves o untouched
// when a is singular.
func Invert(o, a *Mat2D) bool {
	aff := a.Affine()
	if aff.Determinant() == 0 {
		return false
	}
	FromAffine(o, aff.Invert())
	return true
}

// TransformVec sets o to the point v mapped by m.
func TransformVec(o *Vec2D, v Vec2D, m *Mat2D) {
	pt := curve.Pt(float64(v[0]), float64(v[1])).Transform(m.Affine())
	*o = Vec2D{float32(pt.X), float32(pt.Y)}
}
