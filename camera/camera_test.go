package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFillsViewport(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.MinZoom != 0.5 || cam.Zoom != 1 {
		t.Errorf("zoom = %f (min %f), want 1 (min 0.5)", cam.Zoom, cam.MinZoom)
	}

	// Same-size field and window starts fully zoomed out.
	cam = New(1280, 800, 1280, 800)
	if cam.Zoom != 1 || cam.MinZoom != 1 {
		t.Errorf("zoom = %f (min %f), want 1", cam.Zoom, cam.MinZoom)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.ZoomAt(1.7, 300, 200)

	for _, tc := range []Point{{640, 360}, {100, 100}, {1200, 600}} {
		wx, wy := cam.ScreenToWorld(tc.X, tc.Y)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.X) || !near(sy, tc.Y) {
			t.Errorf("roundtrip failed: %v -> (%f,%f) -> (%f,%f)", tc, wx, wy, sx, sy)
		}
	}
}

func TestWorldToScreenShortestWrap(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 100

	sx, _ := cam.WorldToScreen(2500, 720)
	if sx >= 640 {
		t.Errorf("expected point left of center, got x=%f", sx)
	}
}

func TestCopiesAtEdges(t *testing.T) {
	// Field equals viewport, so a circle on an edge shows on both sides.
	cam := New(800, 600, 800, 600)
	var buf []Point

	tests := []struct {
		name   string
		x, y   float32
		copies int
	}{
		{"interior", 400, 300, 1},
		{"left edge", 2, 300, 2},
		{"top edge", 400, 3, 2},
		{"corner", 2, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf = cam.Copies(tt.x, tt.y, 10, buf)
			if len(buf) != tt.copies {
				t.Errorf("copies = %d (%v), want %d", len(buf), buf, tt.copies)
			}
		})
	}
}

func TestCopiesCullsOffscreen(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.ZoomAt(4, 400, 300)

	if got := cam.Copies(10, 10, 5, nil); len(got) != 0 {
		t.Errorf("expected culled circle, got %v", got)
	}
	if got := cam.Copies(400, 300, 5, nil); len(got) != 1 {
		t.Errorf("expected one copy at center, got %v", got)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 100
	cam.Pan(-200, 0)
	if !near(cam.X, 2460) {
		t.Errorf("expected X to wrap to 2460, got %f", cam.X)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	cam := New(800, 600, 800, 600)
	wx, wy := cam.ScreenToWorld(200, 150)
	cam.ZoomAt(2, 200, 150)
	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 200) || !near(sy, 150) {
		t.Errorf("anchor moved to (%f, %f)", sx, sy)
	}
	if cam.Zoom != 2 {
		t.Errorf("zoom = %f, want 2", cam.Zoom)
	}

	cam.ZoomAt(100, 0, 0)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %f, want clamp to %f", cam.Zoom, cam.MaxZoom)
	}
	cam.Reset()
	if cam.Zoom != 1 || cam.X != 400 || cam.Y != 300 {
		t.Errorf("reset = (%f, %f) x%f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestResizeRaisesMinZoom(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.Resize(1600, 600)
	if cam.MinZoom != 2 || cam.Zoom != 2 {
		t.Errorf("zoom = %f (min %f), want 2", cam.Zoom, cam.MinZoom)
	}
}
