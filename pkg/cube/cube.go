// Package cube turns a stack of animation frames into a volumetric image
// cube that can be point-sampled in 3D.
//
// The cube is normalised so that its largest side is 1: a W x H animation
// with N frames becomes a box of W/max(W,H) x H/max(W,H) x 1 centred on the
// origin, with the frames spread evenly along the depth (z) axis.
package cube

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"gifcube/internal/models"
)

var (
	// ErrNoFrames is returned when a cube is built from an empty frame sequence.
	ErrNoFrames = errors.New("cube: no frames")

	// ErrInvalidDimensions is returned for a zero or negative width or height.
	ErrInvalidDimensions = errors.New("cube: invalid dimensions")

	// ErrFrameSize is returned when a frame does not match the cube dimensions.
	ErrFrameSize = errors.New("cube: frame size mismatch")
)

// Convention selects how geometric coordinates map onto frame storage order.
type Convention int

const (
	// Inverted flips y and z before indexing, so that geometric "up" maps to
	// the top row of a frame and the face toward the viewer (+z) maps to the
	// first frame.
	Inverted Convention = iota

	// Direct indexes without flipping. Older renderers sampled this way;
	// the output is mirrored vertically and in time relative to Inverted.
	Direct
)

// ImageCube is an immutable volumetric view over a frame stack.
type ImageCube struct {
	frames []models.Frame

	// pixel dimensions shared by every frame
	pixelWidth  int
	pixelHeight int

	// normalised extents; max(width, height) == 1, depth == 1
	width, height, depth float64

	// half extents, used to shift centred coordinates to positive ones
	half r3.Vec

	// bounds of the cube in shifted coordinates
	bounds r3.Box

	convention Convention
}

// New builds an ImageCube from frames of size width x height using the
// Inverted sampling convention.
func New(frames []models.Frame, width, height int) (*ImageCube, error) {
	return NewWithConvention(frames, width, height, Inverted)
}

// NewWithConvention builds an ImageCube with an explicit sampling convention.
func NewWithConvention(frames []models.Frame, width, height int, convention Convention) (*ImageCube, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	for i := range frames {
		f := &frames[i]
		if f.Width != width || f.Height != height || len(f.Pix) != width*height*4 {
			return nil, fmt.Errorf("%w: frame %d is %dx%d with %d bytes, want %dx%d",
				ErrFrameSize, i, f.Width, f.Height, len(f.Pix), width, height)
		}
	}

	scale := float64(max(width, height))
	c := &ImageCube{
		frames:      frames,
		pixelWidth:  width,
		pixelHeight: height,
		width:       float64(width) / scale,
		height:      float64(height) / scale,
		depth:       1,
		convention:  convention,
	}
	c.half = r3.Vec{X: c.width / 2, Y: c.height / 2, Z: c.depth / 2}
	c.bounds = r3.Box{Max: r3.Vec{X: c.width, Y: c.height, Z: c.depth}}
	return c, nil
}

// Size returns the normalised extents of the cube.
func (c *ImageCube) Size() r3.Vec {
	return r3.Vec{X: c.width, Y: c.height, Z: c.depth}
}

// Bounds returns the cube's box in centred local coordinates.
func (c *ImageCube) Bounds() r3.Box {
	return r3.Box{Min: r3.Scale(-1, c.half), Max: c.half}
}

// PixelSize returns the pixel dimensions of the frames.
func (c *ImageCube) PixelSize() (width, height int) {
	return c.pixelWidth, c.pixelHeight
}

// FrameCount returns the number of frames along the depth axis.
func (c *ImageCube) FrameCount() int {
	return len(c.frames)
}

// Frame returns frame i. The returned frame must not be modified.
func (c *ImageCube) Frame(i int) *models.Frame {
	return &c.frames[i]
}

// Convention returns the sampling convention of the cube.
func (c *ImageCube) Convention() Convention {
	return c.convention
}

// Sample returns the colour of the cube at centred local coordinates
// (x, y, z). Points outside the cube are transparent black; points inside
// are opaque regardless of the frame's own alpha.
func (c *ImageCube) Sample(x, y, z float64) color.RGBA {
	var px [4]uint8
	c.SampleInto(px[:], x, y, z)
	return color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// SampleInto writes the colour at (x, y, z) into dst[0:4].
func (c *ImageCube) SampleInto(dst []uint8, x, y, z float64) {
	p, ok := c.locate(x, y, z)
	if !ok {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}

	frame := &c.frames[c.index(p.Z, c.depth, len(c.frames))]
	u := c.index(p.X, c.width, c.pixelWidth)
	v := c.index(p.Y, c.height, c.pixelHeight)

	i := frame.Offset(u, v)
	dst[0] = frame.Pix[i+0]
	dst[1] = frame.Pix[i+1]
	dst[2] = frame.Pix[i+2]
	dst[3] = 255
}

// FrameIndexAt returns the frame selected by a sample at centred depth z,
// or -1 when z lies outside the cube.
func (c *ImageCube) FrameIndexAt(z float64) int {
	z += c.half.Z
	if z < 0 || z > c.depth {
		return -1
	}
	if c.convention == Inverted {
		z = c.depth - z
	}
	return c.index(z, c.depth, len(c.frames))
}

// locate shifts centred coordinates into the positive cube space, applies
// the sampling convention and reports whether the point is inside.
func (c *ImageCube) locate(x, y, z float64) (r3.Vec, bool) {
	p := r3.Add(r3.Vec{X: x, Y: y, Z: z}, c.half)
	if c.convention == Inverted {
		p.Y = c.height - p.Y
		p.Z = c.depth - p.Z
	}
	return p, c.bounds.Contains(p)
}

// index maps a coordinate in [0, extent] onto [0, n-1]. The upper boundary
// maps to n without clamping, so clamp it back.
func (c *ImageCube) index(coord, extent float64, n int) int {
	i := int(math.Floor(coord / extent * float64(n)))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
