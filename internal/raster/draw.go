package raster

import (
	"image/color"
	"math"

	"SuperBoard/internal/state"
)

func (s *Surface) shadowPad() int {
	if s.State.ShadowBlur <= 0 {
		return 0
	}
	return int(math.Ceil(s.State.ShadowBlur))
}

// StrokeSegment draws the segment a-b with round caps.
func (s *Surface) StrokeSegment(a, b state.Point, width float64, c color.Color) {
	s.StrokePath([]state.Point{a, b}, width, c)
}

// StrokePath draws a polyline of the given width with round caps and joins.
// All segments are unioned into one coverage mask and composited once, so
// overlapping segments never double-blend. A single point draws a dot.
func (s *Surface) StrokePath(pts []state.Point, width float64, c color.Color) {
	if len(pts) == 0 || width <= 0 {
		return
	}
	sb := newShapeBuilder()
	r := width / 2
	if len(pts) == 1 {
		sb.circle(pts[0], r)
	}
	for i := 1; i < len(pts); i++ {
		sb.capsule(pts[i-1], pts[i], r)
	}
	s.composite(sb.rasterize(s.img.Rect, s.shadowPad()), c)
}

// FillCircle fills one disc.
func (s *Surface) FillCircle(center state.Point, radius float64, c color.Color) {
	s.FillCircles([]state.Point{center}, radius, c)
}

// FillCircles fills discs of one radius as a single composite.
func (s *Surface) FillCircles(centers []state.Point, radius float64, c color.Color) {
	if len(centers) == 0 || radius <= 0 {
		return
	}
	sb := newShapeBuilder()
	for _, p := range centers {
		sb.circle(p, radius)
	}
	s.composite(sb.rasterize(s.img.Rect, s.shadowPad()), c)
}
