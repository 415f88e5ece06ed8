package visualization

import (
	"gonum.org/v1/gonum/stat"

	"gifcube/internal/models"
)

// Stats summarises a slice raster for status display.
type Stats struct {
	// Coverage is the fraction of samples that hit the cube
	Coverage float64

	// MeanLuminance is the mean Rec. 601 luma of the samples that hit the
	// cube, in [0, 1]
	MeanLuminance float64
}

// ComputeStats computes Stats for r.
func ComputeStats(r *models.Raster) Stats {
	n := len(r.Pix) / 4
	if n == 0 {
		return Stats{}
	}

	hits := make([]float64, n)
	luma := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		p := r.Pix[i*4 : i*4+4]
		if p[3] == 0 {
			continue
		}
		hits[i] = 1
		luma = append(luma, (0.299*float64(p[0])+0.587*float64(p[1])+0.114*float64(p[2]))/255)
	}

	s := Stats{Coverage: stat.Mean(hits, nil)}
	if len(luma) > 0 {
		s.MeanLuminance = stat.Mean(luma, nil)
	}
	return s
}
