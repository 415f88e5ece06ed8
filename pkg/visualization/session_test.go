package visualization

import (
	"math"
	"testing"
	"time"

	"gifcube/pkg/geometry"
	"gifcube/pkg/slicer"
)

// TestSessionThrottle verifies bursts of changes are coalesced into one slice per interval
func TestSessionThrottle(t *testing.T) {
	s := slicer.New()
	s.SetCube(rgbCube(t, 4, 4))
	sess := NewSession(s, geometry.DefaultPlane(), 8, 8, 50*time.Millisecond)

	t0 := time.Unix(1000, 0)
	r := sess.Tick(t0)
	if r == nil {
		t.Fatal("Expected the first tick to slice")
	}
	first := r.Generation

	// a burst of changes inside one interval
	for i := 0; i < 5; i++ {
		sess.Update(func(p *geometry.Plane) { p.RotateZ(0.01) })
	}
	if r := sess.Tick(t0.Add(10 * time.Millisecond)); r != nil {
		t.Error("Expected the tick inside the interval to be throttled")
	}
	if !sess.Dirty() {
		t.Error("Expected the throttled change to stay pending")
	}

	r = sess.Tick(t0.Add(60 * time.Millisecond))
	if r == nil {
		t.Fatal("Expected the pending change to be sliced after the interval")
	}
	if r.Generation != first+1 {
		t.Errorf("Expected one slice for the burst, generation went from %d to %d", first, r.Generation)
	}

	if r := sess.Tick(t0.Add(500 * time.Millisecond)); r != nil {
		t.Error("Expected no slice without pending changes")
	}
}

// TestSessionResize verifies resizing schedules a slice at the new dimensions
func TestSessionResize(t *testing.T) {
	s := slicer.New()
	s.SetCube(rgbCube(t, 4, 4))
	sess := NewSession(s, geometry.DefaultPlane(), 8, 8, 0)

	now := time.Unix(0, 0)
	sess.Tick(now)

	sess.Resize(8, 8)
	if sess.Dirty() {
		t.Error("Expected resizing to the same dimensions to be ignored")
	}

	sess.Resize(12, 6)
	r := sess.Tick(now)
	if r == nil {
		t.Fatal("Expected a slice after resizing")
	}
	if r.Width != 12 || r.Height != 6 {
		t.Errorf("Expected a 12x6 raster, got %dx%d", r.Width, r.Height)
	}
}

// TestSessionWithoutCube verifies ticking before a cube is loaded is a no-op
func TestSessionWithoutCube(t *testing.T) {
	sess := NewSession(slicer.New(), geometry.DefaultPlane(), 8, 8, 0)
	now := time.Unix(0, 0)

	if r := sess.Tick(now); r != nil {
		t.Error("Expected no raster without a cube")
	}

	sess.Load(rgbCube(t, 4, 4))
	if !sess.Dirty() {
		t.Error("Expected loading a cube to schedule a slice")
	}
	if r := sess.Tick(now); r == nil {
		t.Error("Expected a raster once a cube is loaded")
	}
}

// TestSessionClipPlane verifies the clipping plane follows transform updates
func TestSessionClipPlane(t *testing.T) {
	sess := NewSession(slicer.New(), geometry.NewPlane(geometry.Identity()), 8, 8, 0)

	clip, err := sess.ClipPlane()
	if err != nil {
		t.Fatalf("Failed to get clip plane: %v", err)
	}
	if clip.Vec4() != [4]float64{0, 0, 1, 0} {
		t.Errorf("Expected identity clip plane, got %v", clip.Vec4())
	}

	sess.Update(func(p *geometry.Plane) { p.SetPosition(0, 0, 0.3) })
	clip, err = sess.ClipPlane()
	if err != nil {
		t.Fatalf("Failed to get clip plane: %v", err)
	}
	if w := clip.Vec4()[3]; math.Abs(w-0.3) > 1e-12 {
		t.Errorf("Expected clip offset 0.3, got %f", w)
	}

	sess.Update(func(p *geometry.Plane) { p.SetScale(0, 1, 1) })
	if _, err := sess.ClipPlane(); err == nil {
		t.Error("Expected error for a collapsed plane, got nil")
	}
}
