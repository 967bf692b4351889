// Package event is the typed observer bus that connects the board to its
// collaborators: tool renderers, the page manager and the UI.
package event

import (
	"sync"

	"SuperBoard/internal/raster"
	"SuperBoard/internal/state"
)

type Type int

const (
	DrawStart Type = iota
	DrawMove
	DrawEnd
	PageNew
	ToolSwitched
	HistoryChanged
	ViewChanged
	SelectionChanged
	StrokesChanged
	RasterChanged
)

func (t Type) String() string {
	switch t {
	case DrawStart:
		return "draw:start"
	case DrawMove:
		return "draw:move"
	case DrawEnd:
		return "draw:end"
	case PageNew:
		return "page:new"
	case ToolSwitched:
		return "tool:switched"
	case HistoryChanged:
		return "history:changed"
	case ViewChanged:
		return "view:changed"
	case SelectionChanged:
		return "selection:changed"
	case StrokesChanged:
		return "strokes:changed"
	case RasterChanged:
		return "raster:changed"
	default:
		return "unknown"
	}
}

// Event is the payload of every notification. Only the fields relevant to
// Type are set.
type Event struct {
	Type Type

	// Draw events.
	Tool    string
	Point   state.Point
	Surface *raster.Surface
	Stroke  *state.Stroke

	// HistoryChanged.
	CanUndo bool
	CanRedo bool

	// SelectionChanged: number of selected strokes. ViewChanged: zoom percent.
	Count int
}

type Handler func(Event)

type subscription struct {
	id int
	h  Handler
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[Type][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]subscription)}
}

// Subscribe registers h for the given types and returns a function that
// removes it again.
func (b *Bus) Subscribe(h Handler, types ...Type) (unsubscribe func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	for _, t := range types {
		b.subs[t] = append(b.subs[t], subscription{id: id, h: h})
	}
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, t := range types {
			list := b.subs[t]
			for i, s := range list {
				if s.id == id {
					b.subs[t] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		}
	}
}

// Publish calls every handler subscribed to e.Type. Handlers may publish or
// subscribe themselves.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	list := b.subs[e.Type]
	hs := make([]Handler, len(list))
	for i, s := range list {
		hs[i] = s.h
	}
	b.mu.Unlock()

	for _, h := range hs {
		h(e)
	}
}
