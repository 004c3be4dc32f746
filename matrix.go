package veneer

import (
	"math"
	"strconv"
	"strings"
)

// Matrix is a 4x4 transform in CSS matrix3d order: the linear part occupies
// indices 0..10 by column and the translation sits at 12, 13 and 14.
//
//	| m0  m4  m8   m12 |
//	| m1  m5  m9   m13 |
//	| m2  m6  m10  m14 |
//	| m3  m7  m11  m15 |
//
// Matrix is a value type. Every operation returns a new matrix so a matrix held
// by one branch of a traversal can never be changed by a sibling.
type Matrix [16]float64

// Identity is the identity transform.
var Identity = Matrix{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// nearZero is the magnitude below which matrix entries are written as 0.
const nearZero = 0.000001

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float64) Matrix {
	m := Identity
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a scale by (x, y, z).
func Scale(x, y, z float64) Matrix {
	m := Identity
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateZ returns a rotation of theta radians about the z axis.
func RotateZ(theta float64) Matrix {
	sin, cos := math.Sincos(theta)
	m := Identity
	m[0], m[1] = cos, sin
	m[4], m[5] = -sin, cos
	return m
}

// Multiply returns a*b for affine transforms: b is applied first, then a.
func Multiply(a, b Matrix) Matrix {
	return Matrix{
		a[0]*b[0] + a[4]*b[1] + a[8]*b[2],
		a[1]*b[0] + a[5]*b[1] + a[9]*b[2],
		a[2]*b[0] + a[6]*b[1] + a[10]*b[2],
		0,
		a[0]*b[4] + a[4]*b[5] + a[8]*b[6],
		a[1]*b[4] + a[5]*b[5] + a[9]*b[6],
		a[2]*b[4] + a[6]*b[5] + a[10]*b[6],
		0,
		a[0]*b[8] + a[4]*b[9] + a[8]*b[10],
		a[1]*b[8] + a[5]*b[9] + a[9]*b[10],
		a[2]*b[8] + a[6]*b[9] + a[10]*b[10],
		0,
		a[0]*b[12] + a[4]*b[13] + a[8]*b[14] + a[12],
		a[1]*b[12] + a[5]*b[13] + a[9]*b[14] + a[13],
		a[2]*b[12] + a[6]*b[13] + a[10]*b[14] + a[14],
		1,
	}
}

// ThenMove returns m followed by a translation of v (translation in the outer
// frame).
func ThenMove(m Matrix, v [3]float64) Matrix {
	m[12] += v[0]
	m[13] += v[1]
	m[14] += v[2]
	return m
}

// MoveThen returns a translation of v followed by m (translation in m's local
// frame).
func MoveThen(v [3]float64, m Matrix) Matrix {
	return ThenMove(m, vecInFrame(v, m))
}

// vecInFrame applies the linear part of m to v.
func vecInFrame(v [3]float64, m Matrix) [3]float64 {
	return [3]float64{
		v[0]*m[0] + v[1]*m[4] + v[2]*m[8],
		v[0]*m[1] + v[1]*m[5] + v[2]*m[9],
		v[0]*m[2] + v[1]*m[6] + v[2]*m[10],
	}
}

// Equal reports whether a and b hold the same entries.
func (m Matrix) Equal(o Matrix) bool {
	return m == o
}

// CSS formats m as a matrix3d() value. The x and y translations are rounded
// to the device pixel grid and entries smaller than one millionth are written
// as 0, which keeps browsers from flickering between sub-pixel positions.
func (m Matrix) CSS(devicePixelRatio float64) string {
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	m[12] = math.Round(m[12]*devicePixelRatio) / devicePixelRatio
	m[13] = math.Round(m[13]*devicePixelRatio) / devicePixelRatio

	var b strings.Builder
	b.Grow(128)
	b.WriteString("matrix3d(")
	for i := 0; i < 15; i++ {
		if m[i] < nearZero && m[i] > -nearZero {
			b.WriteString("0,")
			continue
		}
		b.WriteString(formatNumber(m[i]))
		b.WriteByte(',')
	}
	b.WriteString(formatNumber(m[15]))
	b.WriteByte(')')
	return b.String()
}

// formatNumber writes v in its shortest round-trip decimal form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// invisibleTransform collapses an element to nothing without unmounting it.
const invisibleTransform = "scale3d(0.0001,0.0001,1)"

// cssOrigin formats an origin as a transform-origin value.
func cssOrigin(o Vec2) string {
	return formatNumber(100*o.X) + "% " + formatNumber(100*o.Y) + "%"
}
