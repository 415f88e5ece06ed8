package cube

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gifcube/internal/models"
)

// solidFrame creates a frame of the given size filled with a single colour
func solidFrame(width, height, index int, c color.RGBA) models.Frame {
	f := models.Frame{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
		Index:  index,
	}
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i+0] = c.R
		f.Pix[i+1] = c.G
		f.Pix[i+2] = c.B
		f.Pix[i+3] = c.A
	}
	return f
}

// indexedFrames creates n frames whose red channel encodes the frame index
func indexedFrames(width, height, n int) []models.Frame {
	frames := make([]models.Frame, n)
	for i := range frames {
		frames[i] = solidFrame(width, height, i, color.RGBA{R: uint8(i), A: 255})
	}
	return frames
}

// TestNewRejectsInvalidInput verifies construction fails fast on precondition violations
func TestNewRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		frames        []models.Frame
		width, height int
		want          error
	}{
		{"no frames", nil, 4, 4, ErrNoFrames},
		{"zero width", indexedFrames(4, 4, 1), 0, 4, ErrInvalidDimensions},
		{"negative height", indexedFrames(4, 4, 1), 4, -1, ErrInvalidDimensions},
		{"mismatched frame", append(indexedFrames(4, 4, 1), solidFrame(3, 4, 1, color.RGBA{})), 4, 4, ErrFrameSize},
		{"short buffer", []models.Frame{{Pix: make([]uint8, 8), Width: 4, Height: 4}}, 4, 4, ErrFrameSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.frames, tt.width, tt.height)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected error %v, got %v", tt.want, err)
			}
			if c != nil {
				t.Errorf("Expected nil cube on error, got %+v", c)
			}
		})
	}
}

// TestScaleInvariance verifies that normalisation only depends on the aspect ratio
func TestScaleInvariance(t *testing.T) {
	small, err := New(indexedFrames(100, 50, 2), 100, 50)
	if err != nil {
		t.Fatalf("Failed to build small cube: %v", err)
	}
	large, err := New(indexedFrames(200, 100, 2), 200, 100)
	if err != nil {
		t.Fatalf("Failed to build large cube: %v", err)
	}

	if diff := cmp.Diff(small.Size(), large.Size()); diff != "" {
		t.Errorf("Cube sizes differ (-small +large):\n%s", diff)
	}

	size := small.Size()
	if size.X != 1 || size.Y != 0.5 || size.Z != 1 {
		t.Errorf("Expected size (1, 0.5, 1), got %+v", size)
	}
	if ratio := size.X / size.Y; ratio != 2 {
		t.Errorf("Expected width:height ratio 2, got %f", ratio)
	}
}

// TestSampleOutsideIsTransparent verifies out-of-cube samples are transparent black
func TestSampleOutsideIsTransparent(t *testing.T) {
	frames := []models.Frame{solidFrame(4, 2, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})}
	c, err := New(frames, 4, 2)
	if err != nil {
		t.Fatalf("Failed to build cube: %v", err)
	}

	// extents are 1 x 0.5 x 1
	points := [][3]float64{
		{0.51, 0, 0},
		{-0.51, 0, 0},
		{0, 0.26, 0},
		{0, -0.26, 0},
		{0, 0, 0.5001},
		{0, 0, -0.5001},
		{2, 2, 2},
	}
	for _, p := range points {
		if got := c.Sample(p[0], p[1], p[2]); got != (color.RGBA{}) {
			t.Errorf("Expected transparent sample at %v, got %v", p, got)
		}
	}

	inside := [][3]float64{
		{0, 0, 0},
		{0.5, 0.25, 0.5},
		{-0.5, -0.25, -0.5},
	}
	for _, p := range inside {
		if got := c.Sample(p[0], p[1], p[2]); got.A != 255 {
			t.Errorf("Expected opaque sample at %v, got %v", p, got)
		}
	}
}

// TestSampleForcesOpaque verifies the frame alpha channel is not propagated
func TestSampleForcesOpaque(t *testing.T) {
	frames := []models.Frame{solidFrame(2, 2, 0, color.RGBA{R: 200, G: 100, B: 50, A: 0})}
	c, err := New(frames, 2, 2)
	if err != nil {
		t.Fatalf("Failed to build cube: %v", err)
	}

	want := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	if got := c.Sample(0, 0, 0); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

// TestFrameSelectionMonotonic sweeps the depth axis and checks every frame is visited in order
func TestFrameSelectionMonotonic(t *testing.T) {
	const n = 7
	c, err := New(indexedFrames(3, 3, n), 3, 3)
	if err != nil {
		t.Fatalf("Failed to build cube: %v", err)
	}

	const steps = 50
	seen := make(map[uint8]bool)
	last := -1
	for i := 0; i < steps; i++ {
		// front face (+z) to back face (-z), pixel centred
		z := 0.5 - (float64(i)+0.5)/steps
		idx := int(c.Sample(0, 0, z).R)
		if idx < last {
			t.Fatalf("Frame index decreased from %d to %d at z=%f", last, idx, z)
		}
		if got := c.FrameIndexAt(z); got != idx {
			t.Errorf("FrameIndexAt(%f) = %d, sample selected %d", z, got, idx)
		}
		last = idx
		seen[uint8(idx)] = true
	}
	if len(seen) != n {
		t.Errorf("Expected all %d frames to be visited, visited %d", n, len(seen))
	}
}

// TestSampleBoundaryClamps verifies samples exactly on the far faces stay in range
func TestSampleBoundaryClamps(t *testing.T) {
	frames := indexedFrames(4, 4, 3)
	// mark the bottom-right pixel of every frame
	for i := range frames {
		off := frames[i].Offset(3, 3)
		frames[i].Pix[off+1] = 99
	}
	c, err := New(frames, 4, 4)
	if err != nil {
		t.Fatalf("Failed to build cube: %v", err)
	}

	// back face, right edge, bottom edge: every index lands exactly on n
	got := c.Sample(0.5, -0.5, -0.5)
	want := color.RGBA{R: 2, G: 99, A: 255}
	if got != want {
		t.Errorf("Expected %v at far corner, got %v", want, got)
	}

	if idx := c.FrameIndexAt(-0.5); idx != 2 {
		t.Errorf("Expected frame 2 at back face, got %d", idx)
	}
	if idx := c.FrameIndexAt(0.5); idx != 0 {
		t.Errorf("Expected frame 0 at front face, got %d", idx)
	}
	if idx := c.FrameIndexAt(0.6); idx != -1 {
		t.Errorf("Expected -1 outside the cube, got %d", idx)
	}
}

// TestSampleConventions verifies pixel orientation for both sampling conventions
func TestSampleConventions(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// top row red/green, bottom row blue/white
	frame := solidFrame(2, 2, 0, color.RGBA{})
	for i, c := range []color.RGBA{red, green, blue, white} {
		frame.Pix[i*4+0], frame.Pix[i*4+1], frame.Pix[i*4+2], frame.Pix[i*4+3] = c.R, c.G, c.B, c.A
	}
	last := solidFrame(2, 2, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	tests := []struct {
		convention Convention
		x, y, z    float64
		want       color.RGBA
	}{
		{Inverted, -0.25, 0.25, 0.4, red},
		{Inverted, 0.25, 0.25, 0.4, green},
		{Inverted, -0.25, -0.25, 0.4, blue},
		{Inverted, 0.25, -0.25, 0.4, white},
		{Inverted, 0, 0, -0.4, color.RGBA{R: 1, G: 2, B: 3, A: 255}},
		{Direct, -0.25, 0.25, -0.4, blue},
		{Direct, -0.25, -0.25, -0.4, red},
		{Direct, 0.25, -0.25, -0.4, green},
		{Direct, 0, 0, 0.4, color.RGBA{R: 1, G: 2, B: 3, A: 255}},
	}

	for _, tt := range tests {
		c, err := NewWithConvention([]models.Frame{frame, last}, 2, 2, tt.convention)
		if err != nil {
			t.Fatalf("Failed to build cube: %v", err)
		}
		if got := c.Sample(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("convention %d at (%.2f, %.2f, %.2f): expected %v, got %v",
				tt.convention, tt.x, tt.y, tt.z, tt.want, got)
		}
	}
}

// TestFaceImages verifies the six face textures
func TestFaceImages(t *testing.T) {
	c, err := New(indexedFrames(4, 2, 3), 4, 2)
	if err != nil {
		t.Fatalf("Failed to build cube: %v", err)
	}

	faces := c.FaceImages()
	if len(faces) != 6 {
		t.Fatalf("Expected 6 faces, got %d", len(faces))
	}

	for face, img := range faces {
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
			t.Errorf("Face %s: expected 4x2, got %dx%d", face, b.Dx(), b.Dy())
		}
	}

	if r := faces[Front].RGBAAt(1, 1).R; r != 0 {
		t.Errorf("Expected front face from frame 0, got frame %d", r)
	}
	if r := faces[Back].RGBAAt(1, 1).R; r != 2 {
		t.Errorf("Expected back face from frame 2, got frame %d", r)
	}

	// time runs along x on the side faces: floor(x/4*3) = 0, 0, 1, 2
	wantX := []uint8{0, 0, 1, 2}
	for x, want := range wantX {
		for _, face := range []Face{Left, Right} {
			if got := faces[face].RGBAAt(x, 0).R; got != want {
				t.Errorf("Face %s column %d: expected frame %d, got %d", face, x, want, got)
			}
		}
	}

	// time runs along y on top and bottom: floor(y/2*3) = 0, 1
	for y, want := range []uint8{0, 1} {
		for _, face := range []Face{Top, Bottom} {
			if got := faces[face].RGBAAt(3, y).R; got != want {
				t.Errorf("Face %s row %d: expected frame %d, got %d", face, y, want, got)
			}
		}
	}
}
