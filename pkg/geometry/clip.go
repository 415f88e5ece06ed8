package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateTransform is returned when a transform collapses an axis and
// has no normal matrix.
var ErrDegenerateTransform = errors.New("geometry: degenerate transform")

// ClipPlane is a plane equation Normal·p + Constant = 0.
type ClipPlane struct {
	Normal   r3.Vec
	Constant float64
}

// ClipPlaneFromMatrix transforms the canonical plane z = 0 (normal +z,
// constant 0) by a 4x4 world matrix.
func ClipPlaneFromMatrix(world mat.Matrix) (ClipPlane, error) {
	if r, c := world.Dims(); r != 4 || c != 4 {
		return ClipPlane{}, fmt.Errorf("geometry: world matrix is %dx%d, want 4x4", r, c)
	}

	upper := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			upper.Set(i, j, world.At(i, j))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(upper); err != nil {
		return ClipPlane{}, fmt.Errorf("%w: %v", ErrDegenerateTransform, err)
	}

	// normal matrix is the inverse transpose of the upper 3x3
	normalMatrix := r3.NewMat(nil)
	normalMatrix.CloneFrom(&inv)
	n := normalMatrix.MulVecTrans(ZAxis)
	if r3.Norm2(n) == 0 {
		return ClipPlane{}, ErrDegenerateTransform
	}
	n = r3.Unit(n)

	// the canonical plane passes through the local origin
	ref := ApplyMatrix(world, r3.Vec{})
	return ClipPlane{Normal: n, Constant: -r3.Dot(ref, n)}, nil
}

// Vec4 returns the plane packed as (normal.x, normal.y, normal.z, -constant)
// for fragment-level discarding.
func (c ClipPlane) Vec4() [4]float64 {
	return [4]float64{c.Normal.X, c.Normal.Y, c.Normal.Z, -c.Constant}
}

// Distance returns the signed distance from p to the plane.
func (c ClipPlane) Distance(p r3.Vec) float64 {
	return r3.Dot(c.Normal, p) + c.Constant
}

// Discards reports whether a renderer should drop a fragment at p, i.e.
// whether p lies on the side the normal points to.
func (c ClipPlane) Discards(p r3.Vec) bool {
	v := c.Vec4()
	return p.X*v[0]+p.Y*v[1]+p.Z*v[2] > v[3]
}
