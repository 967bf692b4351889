// Package tools renders pen and eraser strokes onto the board surface in
// response to draw events.
package tools

import (
	"SuperBoard/internal/raster"
	"SuperBoard/internal/state"
)

// Tool names as carried by draw events and recorded on strokes.
const (
	NamePen    = "pen"
	NameEraser = "eraser"
	NameSelect = "select"
)

// Renderer draws one stroke at a time onto a surface.
type Renderer interface {
	// Start begins a stroke at p. When st is non-nil the renderer records its
	// style on it so the stroke can be replayed later.
	Start(s *raster.Surface, p state.Point, st *state.Stroke)
	Move(s *raster.Surface, p state.Point)
	// End finishes the stroke and restores the surface's default state.
	End(s *raster.Surface)
}

// Replay draws a committed stroke again from its recorded style, the same
// way it was drawn live.
func Replay(s *raster.Surface, st *state.Stroke) {
	if st == nil || len(st.Points) == 0 {
		return
	}
	var r Renderer
	switch st.Tool {
	case NameEraser:
		e := NewEraser()
		if st.Style.Width > 0 {
			e.radius = st.Style.Width
		}
		r = e
	default:
		p := NewPen()
		if spec, ok := penTypes[PenType(st.Style.Kind)]; ok {
			p.typ = PenType(st.Style.Kind)
			p.opacity = spec.Opacity
		}
		if st.Style.Opacity > 0 {
			p.opacity = st.Style.Opacity
		}
		if st.Style.Width > 0 {
			p.size = st.Style.Width
		}
		if c, err := ParseHexColor(st.Style.Color); err == nil {
			p.color = c
		}
		r = p
	}
	r.Start(s, st.Points[0], nil)
	for _, pt := range st.Points[1:] {
		r.Move(s, pt)
	}
	r.End(s)
}
