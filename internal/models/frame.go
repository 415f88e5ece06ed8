package models

import (
	"image"
)

// Frame represents one time-step of an animation
type Frame struct {
	// Pix holds the RGBA bytes of the frame in top-to-bottom row-major order,
	// 4 bytes per pixel
	Pix []uint8

	// Width is the width of the frame in pixels
	Width int

	// Height is the height of the frame in pixels
	Height int

	// Index is the position of this frame in the animation
	Index int

	// Delay is the display time of the frame in hundredths of a second,
	// as stored in GIF files. Zero when unknown.
	Delay int
}

// NewFrame copies img into a new Frame
func NewFrame(img image.Image, index int) Frame {
	b := img.Bounds()
	f := Frame{
		Pix:    make([]uint8, b.Dx()*b.Dy()*4),
		Width:  b.Dx(),
		Height: b.Dy(),
		Index:  index,
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == b.Dx()*4 {
		copy(f.Pix, rgba.Pix)
		return f
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			f.Pix[i+0] = uint8(r >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(bl >> 8)
			f.Pix[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return f
}

// Offset returns the index of the first byte of pixel (x, y) in Pix
func (f *Frame) Offset(x, y int) int {
	return (y*f.Width + x) * 4
}

// Image returns a view of the frame as an *image.RGBA sharing Pix.
// Callers must not modify the returned image.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Raster is the output buffer of a plane slice
type Raster struct {
	// Pix holds the sampled RGBA bytes in top-to-bottom row-major order
	Pix []uint8

	// Width, Height are the sample dimensions of the raster
	Width, Height int

	// Generation is incremented every time the raster is refilled, so a
	// display surface can tell that it needs to redraw
	Generation uint64
}

// Resize makes sure the raster holds width x height pixels.
// The buffer is only reallocated when the dimensions change; it reports
// whether a reallocation took place.
func (r *Raster) Resize(width, height int) bool {
	if r.Pix != nil && r.Width == width && r.Height == height {
		return false
	}
	r.Pix = make([]uint8, width*height*4)
	r.Width = width
	r.Height = height
	return true
}

// Image returns a view of the raster as an *image.RGBA sharing Pix
func (r *Raster) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Clone returns a deep copy of the raster
func (r *Raster) Clone() *Raster {
	c := *r
	c.Pix = append([]uint8(nil), r.Pix...)
	return &c
}
