// Package loader reads animations from disk into frame stacks ready to be
// turned into an image cube.
package loader

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gifcube/internal/models"
)

var (
	// ErrNoImages is returned when an input holds no decodable frames.
	ErrNoImages = errors.New("loader: no images found")

	// ErrSizeMismatch is returned when the frames of a stack differ in size.
	ErrSizeMismatch = errors.New("loader: frames differ in size")
)

// Animation is a decoded frame stack.
type Animation struct {
	Frames []models.Frame
	Width  int
	Height int
}

// DecodeGIF decodes every frame of a GIF.
//
// GIF frames are usually partial updates, so each frame is composited onto
// the running canvas: frame i starts from the pixels of frame i-1, then the
// disposal method of frame i decides what frame i+1 starts from.
func DecodeGIF(r io.Reader) (*Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoImages
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, img := range g.Image {
			bounds = bounds.Union(img.Bounds())
		}
	}

	canvas := image.NewRGBA(bounds)
	anim := &Animation{
		Frames: make([]models.Frame, 0, len(g.Image)),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	for i, img := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(bounds)
			copy(previous.Pix, canvas.Pix)
		}

		draw.Draw(canvas, img.Bounds(), img, img.Bounds().Min, draw.Over)

		frame := models.NewFrame(canvas, i)
		if i < len(g.Delay) {
			frame.Delay = g.Delay[i]
		}
		anim.Frames = append(anim.Frames, frame)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return anim, nil
}

// LoadFile loads an animation from path. GIF files are decoded frame by
// frame, other images become a single frame, and a directory is loaded as an
// image stack.
func LoadFile(path string) (*Animation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDirectory(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(path)) == ".gif" {
		return DecodeGIF(f)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	b := img.Bounds()
	return &Animation{
		Frames: []models.Frame{models.NewFrame(img, 0)},
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// LoadDirectory loads every PNG and JPEG image in dir as one frame, ordered
// by the number embedded in the filename.
func LoadDirectory(dir string) (*Animation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}

	// frame_2 must come before frame_10
	sort.SliceStable(names, func(i, j int) bool {
		ni, nj := extractNumber(names[i]), extractNumber(names[j])
		if ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})

	anim := &Animation{}
	for i, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", name, err)
		}

		b := img.Bounds()
		if i == 0 {
			anim.Width, anim.Height = b.Dx(), b.Dy()
		} else if b.Dx() != anim.Width || b.Dy() != anim.Height {
			return nil, fmt.Errorf("%w: %s is %dx%d, expected %dx%d",
				ErrSizeMismatch, name, b.Dx(), b.Dy(), anim.Width, anim.Height)
		}
		anim.Frames = append(anim.Frames, models.NewFrame(img, i))
	}

	return anim, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}

	if digits.Len() > 0 {
		num, err := strconv.Atoi(digits.String())
		if err == nil {
			return num
		}
	}
	return 0
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}
