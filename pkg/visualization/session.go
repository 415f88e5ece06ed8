package visualization

import (
	"time"

	"golang.org/x/time/rate"

	"gifcube/internal/models"
	"gifcube/pkg/cube"
	"gifcube/pkg/geometry"
	"gifcube/pkg/slicer"
)

// Session drives a slicer from an interactive host. Transform and resize
// events only mark the session dirty; Tick, called once per rendered frame,
// re-slices at most once per throttle interval. A tick that is throttled
// keeps the session dirty, so the last change is always rendered.
type Session struct {
	plane   *geometry.Plane
	slicer  *slicer.Slicer
	limiter *rate.Limiter

	sampleWidth, sampleHeight int

	dirty   bool
	clip    geometry.ClipPlane
	clipErr error
}

// NewSession creates a session slicing along plane. An interval of zero
// disables throttling.
func NewSession(s *slicer.Slicer, plane *geometry.Plane, sampleWidth, sampleHeight int, interval time.Duration) *Session {
	sess := &Session{
		plane:        plane,
		slicer:       s,
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
		sampleWidth:  sampleWidth,
		sampleHeight: sampleHeight,
		dirty:        true,
	}
	sess.updateClip()
	return sess
}

// Load replaces the cube wholesale.
func (s *Session) Load(c *cube.ImageCube) {
	s.slicer.SetCube(c)
	s.dirty = true
}

// Update applies fn to the plane and schedules a re-slice.
func (s *Session) Update(fn func(p *geometry.Plane)) {
	fn(s.plane)
	s.updateClip()
	s.dirty = true
}

// Resize changes the sample dimensions.
func (s *Session) Resize(sampleWidth, sampleHeight int) {
	if sampleWidth == s.sampleWidth && sampleHeight == s.sampleHeight {
		return
	}
	s.sampleWidth, s.sampleHeight = sampleWidth, sampleHeight
	s.dirty = true
}

// Dirty reports whether a change is waiting to be sliced.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Plane returns the plane driven by the session.
func (s *Session) Plane() *geometry.Plane {
	return s.plane
}

// ClipPlane returns the clipping plane for the current transform.
func (s *Session) ClipPlane() (geometry.ClipPlane, error) {
	return s.clip, s.clipErr
}

// Tick re-slices when there are pending changes and the throttle allows it.
// It returns the refreshed raster, or nil when nothing was sliced.
func (s *Session) Tick(now time.Time) *models.Raster {
	if !s.dirty || !s.limiter.AllowN(now, 1) {
		return nil
	}
	s.dirty = false
	return s.slicer.SlicePlane(s.plane, s.sampleWidth, s.sampleHeight)
}

func (s *Session) updateClip() {
	s.clip, s.clipErr = s.plane.ClipPlane()
}
