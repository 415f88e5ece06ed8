package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"

	"gifcube/pkg/config"
	"gifcube/pkg/cube"
	"gifcube/pkg/geometry"
	"gifcube/pkg/loader"
	"gifcube/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Animated GIF, single image, or directory of numbered frames")
	configPath := flag.String("config", "", "YAML configuration file (defaults are used when empty)")
	outputDir := flag.String("output", "", "Output directory (overrides the config)")
	width := flag.Int("width", -1, "Samples along the plane width (0 = larger frame side)")
	height := flag.Int("height", -1, "Samples along the plane height (0 = larger frame side)")
	sweep := flag.Int("sweep", 0, "Save this many slices swept through the cube")
	axis := flag.String("axis", "z", "Axis of the sweep: x, y, or z")
	spin := flag.Bool("spin", false, "Save the auto-rotation animation (steps from the config)")
	faces := flag.Bool("faces", false, "Save the six face images of the cube")
	thumbnail := flag.Int("thumbnail", -1, "Also save a thumbnail of the slice with this longer side")
	workers := flag.Int("workers", 0, "Parallel workers for the sweep (overrides the config)")
	writeConfig := flag.String("write-config", "", "Write the default configuration to this path and exit")
	flag.Parse()
	defer glog.Flush()

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			glog.Exitf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *writeConfig)
		return
	}

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			glog.Exitf("Failed to load config: %v", err)
		}
	}

	// Command line flags take precedence over the file
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *width >= 0 {
		cfg.Sampling.Width = *width
	}
	if *height >= 0 {
		cfg.Sampling.Height = *height
	}
	if *workers > 0 {
		cfg.Output.Workers = *workers
	}
	if *thumbnail >= 0 {
		cfg.Output.Thumbnail = *thumbnail
	}
	if err := cfg.Validate(); err != nil {
		glog.Exit(err)
	}
	if cfg.Output.Verbose {
		flag.Set("v", "1")
	}

	startTime := time.Now()
	anim, err := loader.LoadFile(*inputPath)
	if err != nil {
		glog.Exitf("Failed to load %s: %v", *inputPath, err)
	}
	glog.Infof("Loaded %d frames of %dx%d from %s", len(anim.Frames), anim.Width, anim.Height, *inputPath)

	convention := cube.Inverted
	if cfg.Sampling.Convention == "direct" {
		convention = cube.Direct
	}
	c, err := cube.NewWithConvention(anim.Frames, anim.Width, anim.Height, convention)
	if err != nil {
		glog.Exitf("Failed to build cube: %v", err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		glog.Exitf("Failed to create output directory: %v", err)
	}

	viewer := visualization.NewViewer(c, cfg.Sampling.Width, cfg.Sampling.Height)
	sw, sh := viewer.SampleSize()

	size := c.Size()
	fmt.Println("================================")
	fmt.Printf("Cube: %d frames, %dx%d pixels, normalised %.3f x %.3f x %.3f\n",
		c.FrameCount(), anim.Width, anim.Height, size.X, size.Y, size.Z)
	fmt.Printf("Sampling: %dx%d\n", sw, sh)
	fmt.Println("================================")

	viewer.Slicer().OnSizeChange(func(w, h float64) {
		fmt.Printf("Plane size: %.3f x %.3f\n", w, h)
	})

	plane := geometry.DefaultPlane()
	rot := cfg.Plane.Rotation
	plane.SetRotation(geometry.EulerRotation(geometry.Radians(rot[0]), geometry.Radians(rot[1]), geometry.Radians(rot[2])))
	plane.SetScale(cfg.Plane.Scale[0], cfg.Plane.Scale[1], cfg.Plane.Scale[2])
	plane.SetPosition(cfg.Plane.Position[0], cfg.Plane.Position[1], cfg.Plane.Position[2])

	ext := cfg.Output.Format
	if ext == "jpeg" {
		ext = "jpg"
	}

	img := viewer.ExtractSlice(plane)
	slicePath := filepath.Join(cfg.Output.Dir, "slice."+ext)
	if err := viewer.SaveSlice(img, slicePath); err != nil {
		glog.Exitf("Failed to save slice: %v", err)
	}
	stats := visualization.ComputeStats(viewer.Slicer().Raster())
	fmt.Printf("Slice saved to %s (coverage %.1f%%, mean luminance %.3f)\n",
		slicePath, stats.Coverage*100, stats.MeanLuminance)

	if clip, err := plane.ClipPlane(); err != nil {
		glog.Warningf("No clipping plane: %v", err)
	} else {
		glog.V(1).Infof("Clipping plane: %v", clip.Vec4())
	}

	if cfg.Output.Thumbnail > 0 {
		thumbPath := filepath.Join(cfg.Output.Dir, "thumbnail."+ext)
		if err := viewer.SaveSlice(visualization.Thumbnail(img, cfg.Output.Thumbnail), thumbPath); err != nil {
			glog.Exitf("Failed to save thumbnail: %v", err)
		}
		fmt.Printf("Thumbnail saved to %s\n", thumbPath)
	}

	if *sweep > 0 {
		sweepDir := filepath.Join(cfg.Output.Dir, *axis)
		fmt.Printf("Saving %d %s-axis slices to %s using %d workers...\n", *sweep, *axis, sweepDir, cfg.Output.Workers)
		if err := viewer.SaveSliceSequence(*axis, sweepDir, *sweep, cfg.Output.Workers, ext); err != nil {
			glog.Exitf("Failed to save sweep: %v", err)
		}
	}

	if *faces {
		facesDir := filepath.Join(cfg.Output.Dir, "faces")
		if err := viewer.SaveFaces(facesDir, ext); err != nil {
			glog.Exitf("Failed to save faces: %v", err)
		}
		fmt.Printf("Faces saved to %s\n", facesDir)
	}

	if *spin && cfg.Animation.Steps > 0 {
		spinDir := filepath.Join(cfg.Output.Dir, "spin")
		if err := viewer.Spin(plane, spinDir, cfg.Animation.Steps, cfg.Animation.SpinZ, cfg.Animation.SpinY, ext); err != nil {
			glog.Exitf("Failed to save spin: %v", err)
		}
		fmt.Printf("Spin animation saved to %s\n", spinDir)
	}

	fmt.Printf("\nCompleted in %.2f seconds\n", time.Since(startTime).Seconds())
}
