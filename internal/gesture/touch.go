package gesture

import (
	"math"

	"SuperBoard/internal/state"
)

// Contact is one active touch point in screen pixels.
type Contact struct {
	ID   int64
	X, Y float64
}

func (c Contact) Point() state.Point { return state.Point{X: c.X, Y: c.Y} }

// touchSet tracks active contacts in arrival order.
type touchSet struct {
	order []int64
	pos   map[int64]state.Point
}

func newTouchSet() *touchSet {
	return &touchSet{pos: make(map[int64]state.Point)}
}

func (t *touchSet) len() int { return len(t.order) }

// reconcile replaces the tracked set with frame and reports which ids
// appeared and which lifted. Contacts with non-finite coordinates are
// dropped from the frame.
func (t *touchSet) reconcile(frame []Contact) (added, removed []int64) {
	seen := make(map[int64]struct{}, len(frame))
	for _, c := range frame {
		p := c.Point()
		if !p.Valid() {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		if _, ok := t.pos[c.ID]; !ok {
			added = append(added, c.ID)
			t.order = append(t.order, c.ID)
		}
		t.pos[c.ID] = p
	}
	kept := t.order[:0]
	for _, id := range t.order {
		if _, ok := seen[id]; ok {
			kept = append(kept, id)
			continue
		}
		removed = append(removed, id)
		delete(t.pos, id)
	}
	t.order = kept
	return added, removed
}

// at returns the i-th contact by arrival order.
func (t *touchSet) at(i int) (int64, state.Point) {
	id := t.order[i]
	return id, t.pos[id]
}

func (t *touchSet) get(id int64) (state.Point, bool) {
	p, ok := t.pos[id]
	return p, ok
}

func (t *touchSet) reset() {
	t.order = t.order[:0]
	clear(t.pos)
}

func distance(a, b state.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
