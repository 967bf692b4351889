package tools

import (
	"fmt"
	"image/color"
	"math"

	"SuperBoard/internal/raster"
	"SuperBoard/internal/state"
)

type EraserSize string

const (
	EraserSmall  EraserSize = "small"
	EraserMedium EraserSize = "medium"
	EraserLarge  EraserSize = "large"
)

var eraserRadius = map[EraserSize]float64{
	EraserSmall:  15,
	EraserMedium: 30,
	EraserLarge:  60,
}

var EraserSizes = []EraserSize{EraserSmall, EraserMedium, EraserLarge}

// Radius returns the erase radius of s in world pixels.
func (s EraserSize) Radius() (float64, bool) {
	r, ok := eraserRadius[s]
	return r, ok
}

type Eraser struct {
	size   EraserSize
	radius float64

	last    state.Point
	drawing bool
}

func NewEraser() *Eraser {
	return &Eraser{size: EraserMedium, radius: eraserRadius[EraserMedium]}
}

func (e *Eraser) Size() EraserSize { return e.size }
func (e *Eraser) Radius() float64  { return e.radius }

func (e *Eraser) SetSize(s EraserSize) error {
	r, ok := eraserRadius[s]
	if !ok {
		return fmt.Errorf("unknown eraser size %q", s)
	}
	e.size, e.radius = s, r
	return nil
}

func (e *Eraser) Style() state.Style {
	return state.Style{Kind: string(e.size), Width: e.radius, Opacity: 1}
}

// Start erases a disc at pt.
func (e *Eraser) Start(s *raster.Surface, pt state.Point, st *state.Stroke) {
	if st != nil {
		st.Style = e.Style()
	}
	e.drawing = true
	e.last = pt
	e.erase(s, pt)
}

func (e *Eraser) Move(s *raster.Surface, pt state.Point) {
	if !e.drawing {
		return
	}
	e.erase(s, pt)
}

func (e *Eraser) End(s *raster.Surface) {
	e.drawing = false
	s.ResetState()
}

// erase stamps discs every radius/2 from the previous point toward pt, plus
// one at pt, and removes them from the surface in one pass.
func (e *Eraser) erase(s *raster.Surface, pt state.Point) {
	s.State.Op = raster.DestinationOut
	s.State.ShadowBlur = 0

	dist := math.Hypot(pt.X-e.last.X, pt.Y-e.last.Y)
	angle := math.Atan2(pt.Y-e.last.Y, pt.X-e.last.X)
	step := e.radius / 2

	var centers []state.Point
	if step > 0 {
		for i := 0.0; i < dist; i += step {
			centers = append(centers, state.Point{
				X: e.last.X + math.Cos(angle)*i,
				Y: e.last.Y + math.Sin(angle)*i,
			})
		}
	}
	centers = append(centers, pt)
	s.FillCircles(centers, e.radius, color.Black)
	e.last = pt
}
