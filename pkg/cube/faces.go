package cube

import (
	"image"
)

// Face names one of the six outer faces of the cube.
type Face int

const (
	Front Face = iota
	Right
	Back
	Left
	Top
	Bottom
)

// Faces lists every face in a stable order.
var Faces = []Face{Front, Right, Back, Left, Top, Bottom}

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Right:
		return "right"
	case Back:
		return "back"
	case Left:
		return "left"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// FaceImage renders the texture of one outer face.
//
// Front and back are the first and last frames. The side faces stretch the
// frame axis across the face: left and right take column 0 and the last
// column of each frame with time running along x, top and bottom take row 0
// and the last row with time running along y. Every face image is W x H.
func (c *ImageCube) FaceImage(face Face) *image.RGBA {
	w, h := c.pixelWidth, c.pixelHeight
	n := len(c.frames)
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	switch face {
	case Front:
		copy(img.Pix, c.frames[0].Pix)
	case Back:
		copy(img.Pix, c.frames[n-1].Pix)
	case Left, Right:
		col := 0
		if face == Right {
			col = w - 1
		}
		for x := 0; x < w; x++ {
			frame := &c.frames[c.index(float64(x), float64(w), n)]
			for y := 0; y < h; y++ {
				src := frame.Offset(col, y)
				copy(img.Pix[img.PixOffset(x, y):][:4], frame.Pix[src:src+4])
			}
		}
	case Top, Bottom:
		row := 0
		if face == Bottom {
			row = h - 1
		}
		for y := 0; y < h; y++ {
			frame := &c.frames[c.index(float64(y), float64(h), n)]
			src := frame.Offset(0, row)
			copy(img.Pix[img.PixOffset(0, y):][:w*4], frame.Pix[src:src+w*4])
		}
	}
	return img
}

// FaceImages renders all six faces keyed by face.
func (c *ImageCube) FaceImages() map[Face]*image.RGBA {
	out := make(map[Face]*image.RGBA, len(Faces))
	for _, f := range Faces {
		out[f] = c.FaceImage(f)
	}
	return out
}
