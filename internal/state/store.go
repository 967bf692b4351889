package state

import (
	"github.com/google/uuid"
)

// MinStrokePoints is the smallest stroke the store commits. Single taps
// leave nothing behind.
const MinStrokePoints = 2

// Store is the ordered collection of committed strokes plus the stroke being
// drawn. It is owned by the UI loop and is not safe for concurrent use.
type Store struct {
	strokes []*Stroke
	current *Stroke
	seq     uint64

	// OnOp is called after every committed mutation.
	OnOp func(Op)
}

func NewStore() *Store {
	return &Store{strokes: make([]*Stroke, 0)}
}

// Begin starts a new in-progress stroke at p. A stroke already in progress
// is dropped.
func (s *Store) Begin(p Point, tool string) error {
	if !p.Valid() {
		return ErrInvalidPoint
	}
	s.current = newStroke(uuid.NewString(), p, tool)
	return nil
}

// Append adds p to the in-progress stroke, extending its bounds in O(1).
func (s *Store) Append(p Point) error {
	if s.current == nil {
		return ErrNotDrawing
	}
	if !p.Valid() {
		return ErrInvalidPoint
	}
	s.current.add(p)
	return nil
}

// Current returns the in-progress stroke, or nil.
func (s *Store) Current() *Stroke { return s.current }

// Drawing reports whether a stroke is in progress.
func (s *Store) Drawing() bool { return s.current != nil }

// End finishes the in-progress stroke. It is committed and returned only when
// it has at least MinStrokePoints points.
func (s *Store) End() (*Stroke, bool) {
	st := s.current
	s.current = nil
	if st == nil || len(st.Points) < MinStrokePoints {
		return nil, false
	}
	st.Seq = s.nextSeq()
	s.strokes = append(s.strokes, st)
	s.emit(Op{Type: OpInsertStroke, Strokes: []*Stroke{st}, Seq: st.Seq})
	return st, true
}

// Abort drops the in-progress stroke without committing it.
func (s *Store) Abort() { s.current = nil }

// Strokes returns the committed strokes in drawing order. The slice is a
// copy; the strokes are shared.
func (s *Store) Strokes() []*Stroke {
	out := make([]*Stroke, len(s.strokes))
	copy(out, s.strokes)
	return out
}

func (s *Store) Len() int { return len(s.strokes) }

// StrokesInRect returns the strokes whose bounds intersect r. This is a
// broad-phase filter only.
func (s *Store) StrokesInRect(r Rect) []*Stroke {
	var out []*Stroke
	for _, st := range s.strokes {
		if st.Bounds.Intersects(r) {
			out = append(out, st)
		}
	}
	return out
}

// DeleteStrokes removes the given strokes by identity and returns how many
// were removed.
func (s *Store) DeleteStrokes(list []*Stroke) int {
	if len(list) == 0 {
		return 0
	}
	doomed := make(map[*Stroke]struct{}, len(list))
	for _, st := range list {
		doomed[st] = struct{}{}
	}
	kept := s.strokes[:0:0]
	var removed []*Stroke
	for _, st := range s.strokes {
		if _, ok := doomed[st]; ok {
			removed = append(removed, st)
			continue
		}
		kept = append(kept, st)
	}
	s.strokes = kept
	if len(removed) > 0 {
		s.emit(Op{Type: OpDeleteStroke, Strokes: removed})
	}
	return len(removed)
}

// Translate moves every point and the bounds of each listed stroke by
// (dx, dy). Strokes that are not in the store are ignored.
func (s *Store) Translate(list []*Stroke, dx, dy float64) error {
	if !(Point{dx, dy}).Valid() {
		return ErrInvalidPoint
	}
	if len(list) == 0 || (dx == 0 && dy == 0) {
		return nil
	}
	member := make(map[*Stroke]struct{}, len(s.strokes))
	for _, st := range s.strokes {
		member[st] = struct{}{}
	}
	var moved []*Stroke
	for _, st := range list {
		if _, ok := member[st]; !ok {
			continue
		}
		st.translate(dx, dy)
		moved = append(moved, st)
	}
	if len(moved) > 0 {
		s.emit(Op{Type: OpTranslateStroke, Strokes: moved, DX: dx, DY: dy})
	}
	return nil
}

// Clear removes every stroke, including one in progress.
func (s *Store) Clear() {
	s.strokes = make([]*Stroke, 0)
	s.current = nil
	s.emit(Op{Type: OpClear})
}

// Snapshot returns copies of the committed strokes in drawing order. Later
// changes to the store do not affect them.
func (s *Store) Snapshot() []*Stroke {
	out := make([]*Stroke, len(s.strokes))
	for i, st := range s.strokes {
		out[i] = st.Clone()
	}
	return out
}

// Restore replaces the committed strokes with copies of list, as taken by
// Snapshot. A stroke in progress is kept.
func (s *Store) Restore(list []*Stroke) {
	s.strokes = make([]*Stroke, len(list))
	for i, st := range list {
		s.strokes[i] = st.Clone()
	}
	s.emit(Op{Type: OpRestore, Strokes: s.Strokes()})
}

// Extent returns the union of all committed stroke bounds.
func (s *Store) Extent() (Rect, bool) {
	if len(s.strokes) == 0 {
		return Rect{}, false
	}
	r := s.strokes[0].Bounds
	for _, st := range s.strokes[1:] {
		r = r.Union(st.Bounds)
	}
	return r, true
}
