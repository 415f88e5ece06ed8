package visualization

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"gifcube/pkg/cube"
	"gifcube/pkg/geometry"
	"gifcube/pkg/slicer"
)

// Viewer is the export surface of an image cube: it slices the cube with a
// plane and writes the resulting rasters and the cube faces to disk.
type Viewer struct {
	// cube is the volume being viewed; it is shared read-only between workers
	cube *cube.ImageCube

	// slicer is used for single slices; sequence workers bring their own
	slicer *slicer.Slicer

	// sample dimensions of every exported slice
	sampleWidth  int
	sampleHeight int
}

// DefaultSampleSize returns the sample count used along each plane edge when
// none is configured: one sample per pixel of the larger frame side.
func DefaultSampleSize(c *cube.ImageCube) int {
	w, h := c.PixelSize()
	return max(w, h)
}

// NewViewer creates a viewer. Zero sample dimensions fall back to
// DefaultSampleSize.
func NewViewer(c *cube.ImageCube, sampleWidth, sampleHeight int) *Viewer {
	if sampleWidth <= 0 {
		sampleWidth = DefaultSampleSize(c)
	}
	if sampleHeight <= 0 {
		sampleHeight = DefaultSampleSize(c)
	}
	s := slicer.New()
	s.SetCube(c)
	return &Viewer{
		cube:         c,
		slicer:       s,
		sampleWidth:  sampleWidth,
		sampleHeight: sampleHeight,
	}
}

// SampleSize returns the sample dimensions used for exports.
func (v *Viewer) SampleSize() (width, height int) {
	return v.sampleWidth, v.sampleHeight
}

// Slicer returns the viewer's own slicer.
func (v *Viewer) Slicer() *slicer.Slicer {
	return v.slicer
}

// ExtractSlice slices the cube along p and returns a copy of the raster.
func (v *Viewer) ExtractSlice(p *geometry.Plane) *image.RGBA {
	return sliceImage(v.slicer, p, v.sampleWidth, v.sampleHeight)
}

func sliceImage(s *slicer.Slicer, p *geometry.Plane, w, h int) *image.RGBA {
	r := s.SlicePlane(p, w, h)
	if r == nil {
		return nil
	}
	return r.Clone().Image()
}

// AxisPlane returns a plane covering the whole cross-section of the cube
// perpendicular to axis, at the given position along that axis.
//
// The raster orientation matches the face images: for "z" the plane looks
// like a frame, for "x" time runs left to right from the first frame, and
// for "y" time runs top to bottom from the first frame.
func (v *Viewer) AxisPlane(axis string, position float64) (*geometry.Plane, error) {
	size := v.cube.Size()
	p := geometry.NewPlane(geometry.Identity())

	switch axis {
	case "x", "X":
		p.RotateY(math.Pi / 2)
		p.SetScale(size.Z, size.Y, 1)
		p.SetPosition(position, 0, 0)
	case "y", "Y":
		p.RotateX(math.Pi / 2)
		p.SetScale(size.X, size.Z, 1)
		p.SetPosition(0, position, 0)
	case "z", "Z":
		p.SetScale(size.X, size.Y, 1)
		p.SetPosition(0, 0, position)
	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
	return p, nil
}

// SaveSlice saves an extracted slice as a PNG or JPEG image, chosen by the
// filename extension
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

// Thumbnail scales img so that its longer side is maxSide pixels, keeping
// the aspect ratio. Samples are picked nearest-neighbour so that slice pixels
// stay crisp.
func Thumbnail(img image.Image, maxSide int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = max(1, int(math.Round(float64(h)*float64(maxSide)/float64(w))))
		w = maxSide
	} else {
		w = max(1, int(math.Round(float64(w)*float64(maxSide)/float64(h))))
		h = maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// SaveSliceSequence sweeps an axis-aligned plane through the cube and saves
// one image per step. Steps are spread evenly between the two faces
// perpendicular to axis, sampling at step centres, and are rendered by up to
// workers goroutines, each with its own slicer.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string, steps, workers int, ext string) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if _, err := v.AxisPlane(axis, 0); err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	extent := axisExtent(v.cube, axis)

	var g errgroup.Group
	g.SetLimit(max(1, workers))
	for i := 0; i < steps; i++ {
		i := i
		g.Go(func() error {
			s := slicer.New()
			s.SetCube(v.cube)

			// front (positive) face first so that z runs from the first frame
			pos := extent/2 - (float64(i)+0.5)/float64(steps)*extent
			p, err := v.AxisPlane(axis, pos)
			if err != nil {
				return err
			}

			img := sliceImage(s, p, v.sampleWidth, v.sampleHeight)
			filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.%s", strings.ToLower(axis), i, ext))
			if err := v.SaveSlice(img, filename); err != nil {
				return fmt.Errorf("failed to save slice %d: %w", i, err)
			}
			glog.V(1).Infof("Wrote %s (position %.4f)", filename, pos)
			return nil
		})
	}
	return g.Wait()
}

func axisExtent(c *cube.ImageCube, axis string) float64 {
	size := c.Size()
	switch axis {
	case "x", "X":
		return size.X
	case "y", "Y":
		return size.Y
	default:
		return size.Z
	}
}

// SaveFaces writes the six face images of the cube to outputDir as
// face_<name>.<ext>.
func (v *Viewer) SaveFaces(outputDir, ext string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	for _, face := range cube.Faces {
		filename := filepath.Join(outputDir, fmt.Sprintf("face_%s.%s", face, ext))
		if err := v.SaveSlice(v.cube.FaceImage(face), filename); err != nil {
			return fmt.Errorf("failed to save %s face: %w", face, err)
		}
	}
	return nil
}

// Spin replays the auto-rotation of the interactive viewer: the plane is
// turned by spinZ about its local Z axis and spinY about its local Y axis
// before each of steps slices. The plane is left in its final pose.
func (v *Viewer) Spin(p *geometry.Plane, outputDir string, steps int, spinZ, spinY float64, ext string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		p.RotateZ(spinZ)
		p.RotateY(spinY)

		img := v.ExtractSlice(p)
		filename := filepath.Join(outputDir, fmt.Sprintf("spin_%03d.%s", i, ext))
		if err := v.SaveSlice(img, filename); err != nil {
			return fmt.Errorf("failed to save spin frame %d: %w", i, err)
		}
	}
	glog.V(1).Infof("Wrote %d spin frames to %s", steps, outputDir)
	return nil
}
