package raster

import (
	"image"
	"math"

	"SuperBoard/internal/state"
	"golang.org/x/image/vector"
)

// arcSegments is the number of segments used per half circle.
const arcSegments = 16

// mask is an alpha coverage image placed at off in surface coordinates.
type mask struct {
	alpha *image.Alpha
	off   image.Point
}

// shapeBuilder accumulates filled shapes into one rasterizer so that
// overlapping shapes union instead of stacking. Every shape is emitted with
// the same winding.
type shapeBuilder struct {
	shapes [][]state.Point
	bounds state.Rect
	empty  bool
}

func newShapeBuilder() *shapeBuilder {
	return &shapeBuilder{empty: true}
}

func (b *shapeBuilder) add(poly []state.Point) {
	if len(poly) < 3 {
		return
	}
	for _, p := range poly {
		if b.empty {
			b.bounds = state.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			b.empty = false
			continue
		}
		b.bounds = b.bounds.Extend(p)
	}
	b.shapes = append(b.shapes, poly)
}

// circle adds a disc of radius r around c.
func (b *shapeBuilder) circle(c state.Point, r float64) {
	if r <= 0 {
		return
	}
	n := arcSegments * 2
	poly := make([]state.Point, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		poly = append(poly, state.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	b.add(poly)
}

// capsule adds the segment p-q swept by a disc of radius r: a stroke segment
// with round caps. Degenerate segments become a circle.
func (b *shapeBuilder) capsule(p, q state.Point, r float64) {
	if r <= 0 {
		return
	}
	dx, dy := q.X-p.X, q.Y-p.Y
	if math.Hypot(dx, dy) < 1e-9 {
		b.circle(p, r)
		return
	}
	base := math.Atan2(dy, dx)
	poly := make([]state.Point, 0, 2*(arcSegments+1))
	// Half circle around q from base-90° to base+90°, then around p from
	// base+90° to base+270°. Angles increase monotonically, so the winding
	// matches circle.
	for i := 0; i <= arcSegments; i++ {
		a := base - math.Pi/2 + math.Pi*float64(i)/arcSegments
		poly = append(poly, state.Point{X: q.X + r*math.Cos(a), Y: q.Y + r*math.Sin(a)})
	}
	for i := 0; i <= arcSegments; i++ {
		a := base + math.Pi/2 + math.Pi*float64(i)/arcSegments
		poly = append(poly, state.Point{X: p.X + r*math.Cos(a), Y: p.Y + r*math.Sin(a)})
	}
	b.add(poly)
}

// rasterize renders the accumulated shapes clipped to clip. The result is nil
// when nothing is visible. pad grows the mask so a later blur has room.
func (b *shapeBuilder) rasterize(clip image.Rectangle, pad int) *mask {
	if b.empty {
		return nil
	}
	r := image.Rect(
		int(math.Floor(b.bounds.MinX))-1-pad,
		int(math.Floor(b.bounds.MinY))-1-pad,
		int(math.Ceil(b.bounds.MaxX))+1+pad,
		int(math.Ceil(b.bounds.MaxY))+1+pad,
	).Intersect(clip)
	if r.Empty() {
		return nil
	}

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	for _, poly := range b.shapes {
		z.MoveTo(float32(poly[0].X)-ox, float32(poly[0].Y)-oy)
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X)-ox, float32(p.Y)-oy)
		}
		z.ClosePath()
	}

	m := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(m, m.Bounds(), image.Opaque, image.Point{})
	return &mask{alpha: m, off: r.Min}
}
