// Package camera maps the wrapping slime field onto the window, with pan and
// zoom.
package camera

import "math"

// Point is a screen or world position.
type Point struct{ X, Y float32 }

// Camera is a view into a toroidal field. Field edges wrap, so a circle near
// an edge may be visible at up to four screen positions.
type Camera struct {
	// X, Y is the view center in field coordinates.
	X, Y float32

	// Zoom is screen pixels per field unit.
	Zoom             float32
	MinZoom, MaxZoom float32

	ViewportW, ViewportH float32
	FieldW, FieldH       float32
}

// New creates a camera centered on the field at the largest zoom-out that
// still fills the viewport.
func New(viewportW, viewportH, fieldW, fieldH float32) *Camera {
	c := &Camera{
		X:       fieldW / 2,
		Y:       fieldH / 2,
		Zoom:    1,
		MaxZoom: 6,
		FieldW:  fieldW,
		FieldH:  fieldH,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// WorldToScreen maps a field point to the screen along the shortest wrap.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := wrapDelta(wx-c.X, c.FieldW)
	dy := wrapDelta(wy-c.Y, c.FieldH)
	return c.ViewportW/2 + dx*c.Zoom, c.ViewportH/2 + dy*c.Zoom
}

// ScreenToWorld maps a screen point to the field, wrapped into bounds.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = wrap(c.X+(sx-c.ViewportW/2)/c.Zoom, c.FieldW)
	wy = wrap(c.Y+(sy-c.ViewportH/2)/c.Zoom, c.FieldH)
	return wx, wy
}

// Copies appends to buf[:0] every screen position at which a circle of the
// given field radius centered at (wx, wy) is at least partly visible.
func (c *Camera) Copies(wx, wy, radius float32, buf []Point) []Point {
	buf = buf[:0]
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	dx := wrapDelta(wx-c.X, c.FieldW)
	dy := wrapDelta(wy-c.Y, c.FieldH)

	xs := [2]float32{dx, dx - sign(dx)*c.FieldW}
	ys := [2]float32{dy, dy - sign(dy)*c.FieldH}
	for _, oy := range ys {
		if abs(oy) > halfH {
			continue
		}
		for _, ox := range xs {
			if abs(ox) > halfW {
				continue
			}
			buf = append(buf, Point{c.ViewportW/2 + ox*c.Zoom, c.ViewportH/2 + oy*c.Zoom})
		}
	}
	return buf
}

// Resize updates the viewport and the zoom floor. The view never shows more
// than one field width or height.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW, c.ViewportH = viewportW, viewportH
	c.MinZoom = max(viewportW/c.FieldW, viewportH/c.FieldH)
	c.Zoom = clamp(c.Zoom, c.MinZoom, c.MaxZoom)
}

// Pan moves the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float32) {
	c.X = wrap(c.X+dx/c.Zoom, c.FieldW)
	c.Y = wrap(c.Y+dy/c.Zoom, c.FieldH)
}

// ZoomAt scales the zoom by factor, keeping the field point under (sx, sy)
// fixed on screen.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	ax, ay := c.ScreenToWorld(sx, sy)
	c.X = wrap(c.X+wrapDelta(wx-ax, c.FieldW), c.FieldW)
	c.Y = wrap(c.Y+wrapDelta(wy-ay, c.FieldH), c.FieldH)
}

// Reset recenters the view at the lowest zoom.
func (c *Camera) Reset() {
	c.X, c.Y = c.FieldW/2, c.FieldH/2
	c.Zoom = c.MinZoom
}

// wrapDelta folds d into [-size/2, size/2].
func wrapDelta(d, size float32) float32 {
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

func wrap(x, size float32) float32 {
	r := float32(math.Mod(float64(x), float64(size)))
	if r < 0 {
		r += size
	}
	return r
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	return min(max(x, lo), hi)
}
