package tools

import (
	"fmt"
	"image/color"
	"math"

	"SuperBoard/internal/raster"
	"SuperBoard/internal/state"
)

type PenType string

const (
	Pencil      PenType = "pencil"
	FountainPen PenType = "pen"
	Marker      PenType = "marker"
	Chalk       PenType = "chalk"
	Highlighter PenType = "highlighter"
)

// PenSpec is the default size and the opacity of a pen type.
type PenSpec struct {
	Size    float64
	Opacity float64
}

var penTypes = map[PenType]PenSpec{
	Pencil:      {Size: 2, Opacity: 1},
	FountainPen: {Size: 3, Opacity: 1},
	Marker:      {Size: 8, Opacity: 1},
	Chalk:       {Size: 5, Opacity: 0.8},
	Highlighter: {Size: 15, Opacity: 0.3},
}

// PenTypes lists the pen types in toolbar order.
var PenTypes = []PenType{Pencil, FountainPen, Marker, Chalk, Highlighter}

// Spec returns the defaults of t.
func (t PenType) Spec() (PenSpec, bool) {
	s, ok := penTypes[t]
	return s, ok
}

const (
	MinPenSize = 1
	MaxPenSize = 50

	chalkShadowBlur = 2
)

type Pen struct {
	typ     PenType
	color   color.NRGBA
	size    float64
	opacity float64

	last    state.Point
	drawing bool
}

// NewPen returns a white pencil, the board's default.
func NewPen() *Pen {
	p := &Pen{color: color.NRGBA{0xff, 0xff, 0xff, 0xff}}
	p.SetType(Pencil)
	return p
}

func (p *Pen) Type() PenType      { return p.typ }
func (p *Pen) Size() float64      { return p.size }
func (p *Pen) Color() color.NRGBA { return p.color }
func (p *Pen) ColorHex() string   { return HexColor(p.color) }

// SetType switches the pen type and applies its default size.
func (p *Pen) SetType(t PenType) error {
	spec, ok := penTypes[t]
	if !ok {
		return fmt.Errorf("unknown pen type %q", t)
	}
	p.typ = t
	p.opacity = spec.Opacity
	p.size = spec.Size
	return nil
}

// SetSize clamps size to [MinPenSize, MaxPenSize].
func (p *Pen) SetSize(size float64) {
	if math.IsNaN(size) {
		return
	}
	p.size = math.Max(MinPenSize, math.Min(MaxPenSize, size))
}

func (p *Pen) SetColor(c color.NRGBA) {
	c.A = 0xff
	p.color = c
}

func (p *Pen) Style() state.Style {
	return state.Style{Kind: string(p.typ), Color: p.ColorHex(), Width: p.size, Opacity: p.opacity}
}

func (p *Pen) Start(s *raster.Surface, pt state.Point, st *state.Stroke) {
	p.last = pt
	p.drawing = true

	s.State.Alpha = p.opacity
	if p.typ == Highlighter {
		s.State.Op = raster.Multiply
	} else {
		s.State.Op = raster.SourceOver
	}
	if p.typ == Chalk {
		s.State.ShadowBlur = chalkShadowBlur
		s.State.ShadowColor = p.color
	} else {
		s.State.ShadowBlur = 0
	}
	if st != nil {
		st.Style = p.Style()
	}
}

// Move strokes from the previous point to pt. Long jumps are filled with
// evenly spaced points half a line width apart.
func (p *Pen) Move(s *raster.Surface, pt state.Point) {
	if !p.drawing {
		return
	}
	s.StrokePath(interpolate(p.last, pt, p.size), p.size, p.color)
	p.last = pt
}

func (p *Pen) End(s *raster.Surface) {
	p.drawing = false
	s.ResetState()
}

// interpolate returns the path from a to b, including both ends.
func interpolate(a, b state.Point, size float64) []state.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	if dist <= size || size <= 0 {
		return []state.Point{a, b}
	}
	steps := int(math.Ceil(dist / (size * 0.5)))
	pts := make([]state.Point, 0, steps+1)
	pts = append(pts, a)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, state.Point{X: a.X + dx*t, Y: a.Y + dy*t})
	}
	return pts
}
