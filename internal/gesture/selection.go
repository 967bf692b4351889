package gesture

import (
	"slices"

	"SuperBoard/internal/state"
)

// Selection returns the selected strokes.
func (e *Engine) Selection() []*state.Stroke { return slices.Clone(e.selection) }

// SelectionBox returns the rubber band in screen pixels while selecting.
func (e *Engine) SelectionBox() (state.Rect, bool) {
	if e.phase != Selecting {
		return state.Rect{}, false
	}
	return state.RectFromPoints(e.boxStart, e.boxEnd), true
}

// DragOffset is the pending world offset of the selection while dragging.
func (e *Engine) DragOffset() (dx, dy float64) {
	return e.dragOffset.X, e.dragOffset.Y
}

// SelectionBounds returns the world bounds of each selected stroke with the
// pending drag offset applied, for drawing the selection borders.
func (e *Engine) SelectionBounds() []state.Rect {
	out := make([]state.Rect, 0, len(e.selection))
	for _, st := range e.selection {
		out = append(out, st.Bounds.Translate(e.dragOffset.X, e.dragOffset.Y))
	}
	return out
}

// DeleteSelection removes the selected strokes. Empty selections are a no-op.
func (e *Engine) DeleteSelection() {
	if len(e.selection) == 0 {
		return
	}
	sel := e.selection
	e.clearSelection()
	e.host.DeleteStrokes(sel)
}

func (e *Engine) hitSelection(p state.Point) bool {
	for _, st := range e.selection {
		if st.Bounds.Contains(p) {
			return true
		}
	}
	return false
}

// selectInBox resolves the rubber band: broad phase on bounds, then keep
// strokes with at least one point inside.
func (e *Engine) selectInBox() {
	box := state.RectFromPoints(e.boxStart, e.boxEnd)
	if box.Width() < SelectThreshold && box.Height() < SelectThreshold {
		e.host.Invalidate()
		return
	}
	world := e.vp.ToWorldRect(box)
	var sel []*state.Stroke
	for _, st := range e.store.StrokesInRect(world) {
		if st.HasPointIn(world) {
			sel = append(sel, st)
		}
	}
	e.setSelection(sel)
}

// commitDrag applies the accumulated offset to the selection and clears it.
// A drag that went nowhere keeps the selection.
func (e *Engine) commitDrag() {
	dx, dy := e.dragOffset.X, e.dragOffset.Y
	e.dragOffset = state.Point{}
	if dx == 0 && dy == 0 || len(e.selection) == 0 {
		e.host.Invalidate()
		return
	}
	sel := e.selection
	e.clearSelection()
	e.host.TranslateStrokes(sel, dx, dy)
}

func (e *Engine) setSelection(sel []*state.Stroke) {
	e.selection = sel
	e.host.SelectionChanged(slices.Clone(sel))
	e.host.Invalidate()
}

func (e *Engine) clearSelection() {
	if len(e.selection) == 0 {
		return
	}
	e.setSelection(nil)
}
