package state

import (
	"errors"
	"math"
)

// ErrInvalidPoint is returned when a point has a NaN or infinite coordinate.
var ErrInvalidPoint = errors.New("state: point has non-finite coordinates")

// ErrNotDrawing is returned by Append when no stroke is in progress.
var ErrNotDrawing = errors.New("state: no stroke in progress")

type Point struct{ X, Y float64 }

// Valid reports whether both coordinates are finite.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Rect is an axis-aligned box. MinX <= MaxX and MinY <= MaxY for any rect
// built through RectFromPoints or Extend.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectFromPoints returns the normalized rectangle spanned by a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Intersects is the AABB overlap test. Touching edges count as overlap.
func (r Rect) Intersects(o Rect) bool {
	return !(r.MaxX < o.MinX || r.MinX > o.MaxX || r.MaxY < o.MinY || r.MinY > o.MaxY)
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Extend grows r to include p.
func (r Rect) Extend(p Point) Rect {
	r.MinX = math.Min(r.MinX, p.X)
	r.MinY = math.Min(r.MinY, p.Y)
	r.MaxX = math.Max(r.MaxX, p.X)
	r.MaxY = math.Max(r.MaxY, p.Y)
	return r
}

func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Style is what a tool renderer records about a stroke so that the stroke can
// be drawn again after the raster is rebuilt.
type Style struct {
	Kind    string  // pen type or eraser size name
	Color   string  // #rrggbb
	Width   float64 // line width or eraser radius
	Opacity float64
}

// Stroke is one continuous drawing gesture in world coordinates.
type Stroke struct {
	ID     string
	Tool   string
	Points []Point
	Bounds Rect
	Style  Style
	Seq    uint64 // store sequence number at commit; orders replay
}

func newStroke(id string, p Point, tool string) *Stroke {
	return &Stroke{
		ID:     id,
		Tool:   tool,
		Points: []Point{p},
		Bounds: Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y},
	}
}

// Clone returns a copy of s that shares nothing with it.
func (s *Stroke) Clone() *Stroke {
	c := *s
	c.Points = append([]Point(nil), s.Points...)
	return &c
}

// add appends p and extends the bounds against p only.
func (s *Stroke) add(p Point) {
	s.Points = append(s.Points, p)
	s.Bounds = s.Bounds.Extend(p)
}

func (s *Stroke) translate(dx, dy float64) {
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
	s.Bounds = s.Bounds.Translate(dx, dy)
}

// HasPointIn reports whether any of the stroke's points lies inside r.
func (s *Stroke) HasPointIn(r Rect) bool {
	for _, p := range s.Points {
		if r.Contains(p) {
			return true
		}
	}
	return false
}
