// Package geometry provides the affine transforms and the slice plane used to
// cut through an image cube.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// XAxis, YAxis and ZAxis are the local unit axes.
	XAxis = r3.Vec{X: 1}
	YAxis = r3.Vec{Y: 1}
	ZAxis = r3.Vec{Z: 1}
)

// Transform is an affine transform made of a non-uniform scale, followed by
// a rotation, followed by a translation.
type Transform struct {
	Position r3.Vec
	Rotation r3.Rotation
	Scale    r3.Vec
}

// Identity returns the transform that leaves every point unchanged.
func Identity() Transform {
	return Transform{
		Rotation: r3.Rotation{Real: 1},
		Scale:    r3.Vec{X: 1, Y: 1, Z: 1},
	}
}

// Apply maps a local point into world space.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	s := r3.Vec{X: p.X * t.Scale.X, Y: p.Y * t.Scale.Y, Z: p.Z * t.Scale.Z}
	return r3.Add(t.Rotation.Rotate(s), t.Position)
}

// Matrix returns the 4x4 homogeneous world matrix of the transform.
func (t Transform) Matrix() *mat.Dense {
	rot := t.Rotation.Mat()
	scale := [3]float64{t.Scale.X, t.Scale.Y, t.Scale.Z}
	pos := [3]float64{t.Position.X, t.Position.Y, t.Position.Z}

	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, rot.At(i, j)*scale[j])
		}
		m.Set(i, 3, pos[i])
	}
	m.Set(3, 3, 1)
	return m
}

// Rotate applies a rotation of angle radians about a local axis. Successive
// calls compose the way a scene graph's rotateX/rotateY/rotateZ do.
func (t *Transform) Rotate(axis r3.Vec, angle float64) {
	q := quat.Mul(quat.Number(t.Rotation), quat.Number(r3.NewRotation(angle, axis)))
	// renormalise so repeated small rotations do not drift into a scale
	if n := quat.Abs(q); n != 0 && n != 1 {
		q = quat.Scale(1/n, q)
	}
	t.Rotation = r3.Rotation(q)
}

// EulerRotation returns the rotation for angles in radians about X, then Y,
// then Z, all taken in the local frame (XYZ order).
func EulerRotation(x, y, z float64) r3.Rotation {
	q := quat.Mul(quat.Number(r3.NewRotation(x, XAxis)), quat.Number(r3.NewRotation(y, YAxis)))
	q = quat.Mul(q, quat.Number(r3.NewRotation(z, ZAxis)))
	return r3.Rotation(q)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ApplyMatrix transforms p by a 4x4 homogeneous matrix.
func ApplyMatrix(m mat.Matrix, p r3.Vec) r3.Vec {
	v := [4]float64{p.X, p.Y, p.Z, 1}
	var out [4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i] += m.At(i, j) * v[j]
		}
	}
	if w := out[3]; w != 1 && w != 0 {
		return r3.Vec{X: out[0] / w, Y: out[1] / w, Z: out[2] / w}
	}
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}
}
