// Package slicer resamples an image cube along an arbitrary plane.
package slicer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"gifcube/internal/models"
	"gifcube/pkg/cube"
	"gifcube/pkg/geometry"
)

// sizeEpsilon absorbs rounding in corner arithmetic when the plane moves
// without changing scale.
const sizeEpsilon = 1e-9

// SizeObserver receives the plane's physical width and height in cube units.
type SizeObserver func(width, height float64)

// Slicer walks a plane in a regular grid and samples the cube at every grid
// point. It owns its output raster and reuses it between calls while the
// sample size is unchanged.
//
// A Slicer is not safe for concurrent use.
type Slicer struct {
	cube   *cube.ImageCube
	raster models.Raster

	observer     SizeObserver
	reported     bool
	lastW, lastH float64
}

// New creates a slicer with no cube loaded.
func New() *Slicer {
	return &Slicer{}
}

// SetCube replaces the cube being sliced. A nil cube unloads it.
func (s *Slicer) SetCube(c *cube.ImageCube) {
	s.cube = c
}

// Cube returns the currently loaded cube, or nil.
func (s *Slicer) Cube() *cube.ImageCube {
	return s.cube
}

// OnSizeChange registers fn to be called whenever the plane's physical size
// differs from the last size reported.
func (s *Slicer) OnSizeChange(fn SizeObserver) {
	s.observer = fn
	s.reported = false
}

// Raster returns the output buffer. It is empty until the first slice.
func (s *Slicer) Raster() *models.Raster {
	return &s.raster
}

// SlicePlane slices along the plane's current world corners.
func (s *Slicer) SlicePlane(p *geometry.Plane, sampleWidth, sampleHeight int) *models.Raster {
	return s.Slice(p.Corners(), sampleWidth, sampleHeight)
}

// Slice samples the cube over the quad given by its world-space corners at
// sampleWidth x sampleHeight points and returns the filled raster.
//
// Corner 0 is the reference corner, corner 1 ends the first raster row and
// corner 3 ends the first raster column. Samples are taken at pixel centres.
//
// With no cube loaded, or with a non-positive sample size, Slice does
// nothing and returns nil.
func (s *Slicer) Slice(corners [4]r3.Vec, sampleWidth, sampleHeight int) *models.Raster {
	s.notifySize(corners)

	if s.cube == nil || sampleWidth <= 0 || sampleHeight <= 0 {
		return nil
	}

	p0 := corners[0]
	ex := r3.Scale(1/float64(sampleWidth), r3.Sub(corners[1], p0))
	ey := r3.Scale(1/float64(sampleHeight), r3.Sub(corners[3], p0))
	ex2 := r3.Scale(0.5, ex)

	s.raster.Resize(sampleWidth, sampleHeight)
	pix := s.raster.Pix

	start := r3.Add(p0, r3.Scale(0.5, ey))
	for y := 0; y < sampleHeight; y++ {
		p := r3.Add(start, ex2)
		row := y * sampleWidth * 4
		for x := 0; x < sampleWidth; x++ {
			i := row + x*4
			s.cube.SampleInto(pix[i:i+4], p.X, p.Y, p.Z)
			p = r3.Add(p, ex)
		}
		start = r3.Add(start, ey)
	}

	s.raster.Generation++
	return &s.raster
}

func (s *Slicer) notifySize(corners [4]r3.Vec) {
	if s.observer == nil {
		return
	}
	w, h := geometry.CornerSize(corners)
	if s.reported && math.Abs(w-s.lastW) <= sizeEpsilon && math.Abs(h-s.lastH) <= sizeEpsilon {
		return
	}
	s.reported = true
	s.lastW, s.lastH = w, h
	s.observer(w, h)
}
