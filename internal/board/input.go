package board

import (
	"strings"

	"SuperBoard/internal/event"
	"SuperBoard/internal/gesture"
	"SuperBoard/internal/logging"
	"SuperBoard/internal/state"
)

// DefaultChrome names the UI elements that never start a gesture.
var DefaultChrome = []string{
	"toolbar-group",
	"tool-popup",
	"floating-controls",
	"dynamic-island",
	"selected-content",
	"selection-handle",
}

// RegisterChrome adds an element name to the chrome set.
func (b *Board) RegisterChrome(name string) {
	b.chrome[name] = struct{}{}
}

// IsChrome reports whether target, a "/"-separated path from the root UI
// element down to the element under the pointer, passes through chrome.
func (b *Board) IsChrome(target string) bool {
	if target == "" {
		return false
	}
	for _, part := range strings.Split(target, "/") {
		if _, ok := b.chrome[part]; ok {
			return true
		}
	}
	return false
}

// PointerDown handles a mouse press at a screen point. Presses on chrome and
// non-primary buttons are ignored.
func (b *Board) PointerDown(p state.Point, primary bool, target string) {
	if b.IsChrome(target) {
		return
	}
	b.gestures.PointerDown(p, primary)
}

func (b *Board) PointerMove(p state.Point) { b.gestures.PointerMove(p) }
func (b *Board) PointerUp()                { b.gestures.PointerUp() }

// Touch handles a frame of every active contact. A new touch sequence that
// begins on chrome is ignored until all of its contacts lift.
func (b *Board) Touch(frame []gesture.Contact, target string) {
	if b.chromeTouch {
		b.chromeTouch = len(frame) > 0
		return
	}
	if b.gestures.Contacts() == 0 && len(frame) > 0 && b.IsChrome(target) {
		b.chromeTouch = true
		return
	}
	b.gestures.Touch(frame)
}

// DoubleTap on the canvas asks for a new page when the select tool is
// active.
func (b *Board) DoubleTap(target string) {
	if b.IsChrome(target) {
		return
	}
	b.gestures.DoubleTap()
}

// BeginStroke starts the in-progress stroke and announces it to the tool
// renderers. Points are in world coordinates.
func (b *Board) BeginStroke(p state.Point) {
	if err := b.store.Begin(p, b.tool); err != nil {
		logging.Logger().Warn("board: rejected stroke start", "err", err)
		return
	}
	b.drawing = true
	b.bus.Publish(event.Event{
		Type:    event.DrawStart,
		Tool:    b.tool,
		Point:   p,
		Surface: b.surface,
		Stroke:  b.store.Current(),
	})
	b.invalidate()
}

func (b *Board) ExtendStroke(p state.Point) {
	if !b.drawing {
		return
	}
	if err := b.store.Append(p); err != nil {
		logging.Logger().Warn("board: rejected point", "err", err)
		return
	}
	b.bus.Publish(event.Event{
		Type:    event.DrawMove,
		Tool:    b.tool,
		Point:   p,
		Surface: b.surface,
		Stroke:  b.store.Current(),
	})
	b.invalidate()
}

// EndStroke commits the stroke when it has enough points and always takes a
// snapshot.
func (b *Board) EndStroke() {
	if !b.drawing {
		return
	}
	b.drawing = false
	st, _ := b.store.End()
	b.bus.Publish(event.Event{
		Type:    event.DrawEnd,
		Tool:    b.tool,
		Surface: b.surface,
		Stroke:  st,
	})
	b.surface.ResetState()
	b.saveState()
	b.invalidate()
}

// TranslateStrokes commits a finished selection drag.
func (b *Board) TranslateStrokes(list []*state.Stroke, dx, dy float64) {
	if err := b.store.Translate(list, dx, dy); err != nil {
		logging.Logger().Warn("board: rejected translation", "err", err)
		return
	}
	b.Redraw()
	b.saveState()
}

func (b *Board) NewPage() {
	b.bus.Publish(event.Event{Type: event.PageNew})
}

func (b *Board) SelectionChanged(sel []*state.Stroke) {
	b.bus.Publish(event.Event{Type: event.SelectionChanged, Count: len(sel)})
}

func (b *Board) Invalidate() { b.invalidate() }
