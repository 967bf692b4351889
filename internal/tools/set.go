package tools

import (
	"SuperBoard/internal/event"
)

// Set owns the pen, the eraser and the colour palette, and renders draw
// events for whichever of them the event names.
type Set struct {
	Pen     *Pen
	Eraser  *Eraser
	Palette *Palette

	unsubscribe func()
}

func NewSet() *Set {
	return &Set{Pen: NewPen(), Eraser: NewEraser(), Palette: &Palette{}}
}

// Renderer returns the renderer for a tool name, or nil for tools that do
// not draw.
func (t *Set) Renderer(name string) Renderer {
	switch name {
	case NamePen:
		return t.Pen
	case NameEraser:
		return t.Eraser
	default:
		return nil
	}
}

// Handle renders one draw event.
func (t *Set) Handle(e event.Event) {
	r := t.Renderer(e.Tool)
	if r == nil || e.Surface == nil {
		return
	}
	switch e.Type {
	case event.DrawStart:
		r.Start(e.Surface, e.Point, e.Stroke)
	case event.DrawMove:
		r.Move(e.Surface, e.Point)
	case event.DrawEnd:
		r.End(e.Surface)
	}
}

// Attach subscribes the set to the bus's draw events. Attaching again
// replaces the previous subscription.
func (t *Set) Attach(b *event.Bus) {
	t.Detach()
	t.unsubscribe = b.Subscribe(t.Handle, event.DrawStart, event.DrawMove, event.DrawEnd)
}

func (t *Set) Detach() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}
