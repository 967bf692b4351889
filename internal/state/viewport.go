package state

import "math"

const (
	MinScale = 0.1
	MaxScale = 5.0

	// Wheel zoom factors. Zoom is not anchored to the cursor: the transform
	// origin stays put and only the scale changes.
	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9

	// Zoom control percentages, as shown on the zoom control.
	MinZoomPercent  = 10
	MaxZoomPercent  = 1000
	ZoomPercentStep = 10

	backToBottomMargin = 100
)

// Viewport maps world coordinates to screen pixels:
//
//	screen = world*scale + offset
type Viewport struct {
	scale   float64
	offsetX float64
	offsetY float64

	// OnChange is called after any change of scale or offset.
	OnChange func()
}

func NewViewport() *Viewport {
	return &Viewport{scale: 1}
}

func (v *Viewport) Scale() float64 { return v.scale }

func (v *Viewport) Offset() (x, y float64) { return v.offsetX, v.offsetY }

// ToWorld applies the inverse transform to a screen point.
func (v *Viewport) ToWorld(p Point) Point {
	return Point{
		X: (p.X - v.offsetX) / v.scale,
		Y: (p.Y - v.offsetY) / v.scale,
	}
}

// ToScreen applies the forward transform to a world point.
func (v *Viewport) ToScreen(p Point) Point {
	return Point{
		X: p.X*v.scale + v.offsetX,
		Y: p.Y*v.scale + v.offsetY,
	}
}

// ToWorldRect maps a screen rectangle to world space.
func (v *Viewport) ToWorldRect(r Rect) Rect {
	return RectFromPoints(
		v.ToWorld(Point{r.MinX, r.MinY}),
		v.ToWorld(Point{r.MaxX, r.MaxY}),
	)
}

// SetScale clamps s to [MinScale, MaxScale]. Offsets are left untouched.
// Non-finite values are ignored.
func (v *Viewport) SetScale(s float64) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return
	}
	v.scale = math.Max(MinScale, math.Min(MaxScale, s))
	v.changed()
}

// Wheel zooms out for a positive deltaY and in otherwise.
func (v *Viewport) Wheel(deltaY float64) {
	f := WheelZoomIn
	if deltaY > 0 {
		f = WheelZoomOut
	}
	v.SetScale(v.scale * f)
}

// ZoomPercent is the scale as shown on the zoom control.
func (v *Viewport) ZoomPercent() int {
	return int(math.Round(v.scale * 100))
}

// SetZoomPercent applies a zoom control value. The percentage is clamped to
// the control's range before SetScale clamps it again.
func (v *Viewport) SetZoomPercent(pct int) {
	if pct < MinZoomPercent {
		pct = MinZoomPercent
	}
	if pct > MaxZoomPercent {
		pct = MaxZoomPercent
	}
	v.SetScale(float64(pct) / 100)
}

// ZoomStep moves the zoom control by steps of ZoomPercentStep.
func (v *Viewport) ZoomStep(steps int) {
	v.SetZoomPercent(v.ZoomPercent() + steps*ZoomPercentStep)
}

// Pan translates the view by (dx, dy) screen pixels.
func (v *Viewport) Pan(dx, dy float64) {
	if !(Point{dx, dy}).Valid() {
		return
	}
	v.offsetX += dx
	v.offsetY += dy
	v.changed()
}

// ResetToOrigin zeroes the offsets.
func (v *Viewport) ResetToOrigin() {
	v.offsetX, v.offsetY = 0, 0
	v.changed()
}

// BackToBottom scrolls so the lowest content is visible on a view of the
// given height. With no content the view returns to the origin.
func (v *Viewport) BackToBottom(extent Rect, ok bool, height float64) {
	if !ok {
		v.ResetToOrigin()
		return
	}
	v.offsetY = -(extent.MaxY - height/v.scale + backToBottomMargin)
	v.changed()
}

func (v *Viewport) changed() {
	if v.OnChange != nil {
		v.OnChange()
	}
}
