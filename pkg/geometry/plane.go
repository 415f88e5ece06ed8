package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// LocalCorners are the corners of the unit slice quad in its own frame.
// Corner 0 is the reference corner; 0->1 runs along +x and 0->3 along -y,
// so walking 0->1 by rows of 0->3 visits the quad in raster order.
var LocalCorners = [4]r3.Vec{
	{X: -0.5, Y: 0.5},
	{X: 0.5, Y: 0.5},
	{X: 0.5, Y: -0.5},
	{X: -0.5, Y: -0.5},
}

// Plane is the user-positioned quad that selects a cross-section of the cube.
type Plane struct {
	Transform
}

// NewPlane returns a plane with the given transform.
func NewPlane(t Transform) *Plane {
	return &Plane{Transform: t}
}

// DefaultPlane returns the plane a viewer starts with: centred in the cube,
// unit sized, and turned a quarter of a right angle about its normal.
func DefaultPlane() *Plane {
	p := NewPlane(Identity())
	p.RotateZ(math.Pi / 4)
	return p
}

// Corners returns the world-space corners of the plane.
func (p *Plane) Corners() [4]r3.Vec {
	var out [4]r3.Vec
	for i, c := range LocalCorners {
		out[i] = p.Apply(c)
	}
	return out
}

// Size returns the physical width and height of the plane in cube units.
func (p *Plane) Size() (width, height float64) {
	return CornerSize(p.Corners())
}

// CornerSize returns the lengths of the two edges leaving the reference corner.
func CornerSize(corners [4]r3.Vec) (width, height float64) {
	return r3.Norm(r3.Sub(corners[1], corners[0])), r3.Norm(r3.Sub(corners[3], corners[0]))
}

// Normal returns the unit normal of the plane in world space.
func (p *Plane) Normal() r3.Vec {
	c := p.Corners()
	n := r3.Cross(r3.Sub(c[1], c[0]), r3.Sub(c[0], c[3]))
	if r3.Norm2(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

func (p *Plane) SetPosition(x, y, z float64) {
	p.Position = r3.Vec{X: x, Y: y, Z: z}
}

func (p *Plane) SetScale(x, y, z float64) {
	p.Scale = r3.Vec{X: x, Y: y, Z: z}
}

func (p *Plane) SetRotation(r r3.Rotation) {
	p.Rotation = r
}

func (p *Plane) RotateX(angle float64) { p.Rotate(XAxis, angle) }
func (p *Plane) RotateY(angle float64) { p.Rotate(YAxis, angle) }
func (p *Plane) RotateZ(angle float64) { p.Rotate(ZAxis, angle) }

// ClipPlane derives the clipping plane for the current transform.
func (p *Plane) ClipPlane() (ClipPlane, error) {
	return ClipPlaneFromMatrix(p.Matrix())
}
