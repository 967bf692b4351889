// Package gesture turns raw pointer and touch input into drawing, rubber-band
// selection, selection dragging, pinch zoom and pan.
package gesture

import (
	"SuperBoard/internal/logging"
	"SuperBoard/internal/state"
)

// Mode is the active tool family.
type Mode int

const (
	ModeDraw Mode = iota
	ModeSelect
)

// Phase is the gesture in progress. Exactly one phase is active at a time.
type Phase int

const (
	Idle Phase = iota
	Drawing
	Selecting
	Dragging
	Zooming
	Panning
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Selecting:
		return "selecting"
	case Dragging:
		return "dragging"
	case Zooming:
		return "zooming"
	case Panning:
		return "panning"
	default:
		return "unknown"
	}
}

// SelectThreshold is the rubber-band size, in screen pixels, below which a
// release counts as a tap.
const SelectThreshold = 10

const mouseID int64 = -1

// Host receives the engine's side effects. Points are in world coordinates.
type Host interface {
	BeginStroke(p state.Point)
	ExtendStroke(p state.Point)
	EndStroke()
	// TranslateStrokes applies a finished drag to the store, redraws and
	// snapshots.
	TranslateStrokes(list []*state.Stroke, dx, dy float64)
	DeleteStrokes(list []*state.Stroke)
	NewPage()
	SelectionChanged(sel []*state.Stroke)
	// Invalidate asks for the overlay to be repainted.
	Invalidate()
}

type Engine struct {
	vp    *state.Viewport
	store *state.Store
	host  Host

	mode  Mode
	phase Phase

	touches *touchSet
	// waitRelease blocks new gestures until every contact has lifted.
	waitRelease bool
	mouseDown   bool

	boxStart, boxEnd state.Point

	selection  []*state.Stroke
	dragStart  state.Point
	dragOffset state.Point

	lastDist float64
	panID    int64
	lastPan  state.Point
}

func NewEngine(vp *state.Viewport, store *state.Store, host Host) *Engine {
	return &Engine{
		vp:      vp,
		store:   store,
		host:    host,
		touches: newTouchSet(),
	}
}

func (e *Engine) Mode() Mode   { return e.mode }
func (e *Engine) Phase() Phase { return e.phase }

// Contacts returns the number of active contacts, the mouse included.
func (e *Engine) Contacts() int { return e.touches.len() }

// SetMode cancels whatever is in progress and switches mode.
func (e *Engine) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	e.Cancel()
	e.mode = m
}

// Touch feeds one frame holding every active contact. An empty frame means
// all contacts lifted.
func (e *Engine) Touch(frame []Contact) {
	prev := e.touches.len()
	added, removed := e.touches.reconcile(frame)
	n := e.touches.len()

	switch {
	case n == 0 && prev == 0:
		e.malformed("lift without active contacts")
	case n == 0:
		e.finish()
	case len(added) == 0 && len(removed) == 0:
		e.move()
	case prev == 0:
		e.start(n)
	default:
		e.cancelPhase()
		if n == 1 {
			e.waitRelease = true
			return
		}
		e.start(n)
	}
}

// PointerDown starts a one-contact gesture for the primary mouse button.
// Other buttons are ignored.
func (e *Engine) PointerDown(p state.Point, primary bool) {
	if !primary || e.touches.len() > 0 && !e.mouseDown {
		return
	}
	e.mouseDown = true
	e.Touch([]Contact{{ID: mouseID, X: p.X, Y: p.Y}})
}

func (e *Engine) PointerMove(p state.Point) {
	if !e.mouseDown {
		return
	}
	e.Touch([]Contact{{ID: mouseID, X: p.X, Y: p.Y}})
}

func (e *Engine) PointerUp() {
	if !e.mouseDown {
		e.malformed("pointer up without down")
		return
	}
	e.mouseDown = false
	e.Touch(nil)
}

// DoubleTap requests a new page when the select tool is active.
func (e *Engine) DoubleTap() {
	if e.mode != ModeSelect {
		return
	}
	e.host.NewPage()
}

// Cancel abandons any gesture in progress and clears the selection. A
// stroke being drawn is still committed.
func (e *Engine) Cancel() {
	e.cancelPhase()
	e.clearSelection()
	if e.touches.len() > 0 {
		e.waitRelease = true
	}
}

func (e *Engine) start(n int) {
	if e.waitRelease {
		return
	}
	switch {
	case n == 1:
		_, p := e.touches.at(0)
		e.startSingle(p)
	case n == 2:
		_, a := e.touches.at(0)
		_, b := e.touches.at(1)
		e.phase = Zooming
		e.lastDist = distance(a, b)
	default:
		e.phase = Panning
		e.panID, e.lastPan = e.touches.at(0)
	}
}

func (e *Engine) startSingle(p state.Point) {
	if e.mode == ModeDraw {
		e.phase = Drawing
		e.host.BeginStroke(e.vp.ToWorld(p))
		return
	}
	if e.hitSelection(e.vp.ToWorld(p)) {
		e.phase = Dragging
		e.dragStart = p
		e.dragOffset = state.Point{}
		return
	}
	e.clearSelection()
	e.phase = Selecting
	e.boxStart, e.boxEnd = p, p
	e.host.Invalidate()
}

func (e *Engine) move() {
	switch e.phase {
	case Drawing:
		_, p := e.touches.at(0)
		e.host.ExtendStroke(e.vp.ToWorld(p))
	case Selecting:
		_, e.boxEnd = e.touches.at(0)
		e.host.Invalidate()
	case Dragging:
		_, p := e.touches.at(0)
		s := e.vp.Scale()
		e.dragOffset = state.Point{X: (p.X - e.dragStart.X) / s, Y: (p.Y - e.dragStart.Y) / s}
		e.host.Invalidate()
	case Zooming:
		_, a := e.touches.at(0)
		_, b := e.touches.at(1)
		d := distance(a, b)
		if e.lastDist > 0 {
			e.vp.SetScale(e.vp.Scale() * d / e.lastDist)
		}
		e.lastDist = d
	case Panning:
		p, ok := e.touches.get(e.panID)
		if !ok {
			return
		}
		e.vp.Pan(p.X-e.lastPan.X, p.Y-e.lastPan.Y)
		e.lastPan = p
	}
}

// finish ends the gesture when the last contact lifts.
func (e *Engine) finish() {
	switch e.phase {
	case Drawing:
		e.host.EndStroke()
	case Selecting:
		e.selectInBox()
	case Dragging:
		e.commitDrag()
	}
	e.toIdle()
	e.waitRelease = false
}

// cancelPhase stops the current sub-state without completing a selection or
// a drag.
func (e *Engine) cancelPhase() {
	switch e.phase {
	case Drawing:
		e.host.EndStroke()
	case Selecting, Dragging:
		e.host.Invalidate()
	}
	e.toIdle()
}

func (e *Engine) toIdle() {
	e.phase = Idle
	e.dragOffset = state.Point{}
	e.boxStart, e.boxEnd = state.Point{}, state.Point{}
	e.lastDist = 0
}

func (e *Engine) malformed(reason string) {
	logging.Logger().Warn("gesture: resetting to idle", "reason", reason, "phase", e.phase.String())
	if e.phase == Drawing {
		e.host.EndStroke()
	}
	e.toIdle()
	e.touches.reset()
	e.waitRelease = false
	e.mouseDown = false
	e.host.Invalidate()
}
