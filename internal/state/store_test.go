package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawStroke(t *testing.T, s *Store, pts ...Point) *Stroke {
	t.Helper()
	require.NoError(t, s.Begin(pts[0], "pen"))
	for _, p := range pts[1:] {
		require.NoError(t, s.Append(p))
	}
	st, ok := s.End()
	require.True(t, ok)
	return st
}

func TestBoundsExtendIncrementally(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(Point{10, 10}, "pen"))
	require.NoError(t, s.Append(Point{5, 20}))
	require.NoError(t, s.Append(Point{15, -3}))

	assert.Equal(t, Rect{MinX: 5, MinY: -3, MaxX: 15, MaxY: 20}, s.Current().Bounds)
}

func TestSinglePointStrokeNotCommitted(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(Point{1, 1}, "pen"))
	st, ok := s.End()
	assert.False(t, ok)
	assert.Nil(t, st)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Drawing())
}

func TestAppendWithoutBegin(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Append(Point{1, 1}), ErrNotDrawing)
}

func TestNonFinitePointsRejected(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Begin(Point{math.NaN(), 0}, "pen"), ErrInvalidPoint)
	require.NoError(t, s.Begin(Point{0, 0}, "pen"))
	assert.ErrorIs(t, s.Append(Point{0, math.Inf(1)}), ErrInvalidPoint)
	assert.Len(t, s.Current().Points, 1)
}

func TestEndAssignsSeqAndEmits(t *testing.T) {
	s := NewStore()
	var ops []Op
	s.OnOp = func(op Op) { ops = append(ops, op) }

	a := drawStroke(t, s, Point{0, 0}, Point{1, 1})
	b := drawStroke(t, s, Point{2, 2}, Point{3, 3})

	assert.Less(t, a.Seq, b.Seq)
	assert.NotEqual(t, a.ID, b.ID)
	require.Len(t, ops, 2)
	assert.Equal(t, OpInsertStroke, ops[1].Type)
	assert.Equal(t, b.Seq, ops[1].Seq)
	assert.Equal(t, b.Seq, s.Seq())
}

func TestStrokesInRectBroadPhase(t *testing.T) {
	s := NewStore()
	a := drawStroke(t, s, Point{0, 0}, Point{10, 10})
	drawStroke(t, s, Point{100, 100}, Point{110, 110})

	got := s.StrokesInRect(Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50})
	require.Len(t, got, 1)
	assert.Same(t, a, got[0])
}

func TestBroadPhaseNeedsNarrowPhase(t *testing.T) {
	s := NewStore()
	// A diagonal whose bounds cover the query rect but whose points do not.
	diag := drawStroke(t, s, Point{0, 0}, Point{100, 100})
	r := Rect{MinX: 60, MinY: 10, MaxX: 90, MaxY: 30}

	assert.Len(t, s.StrokesInRect(r), 1)
	assert.False(t, diag.HasPointIn(r))
}

func TestDeleteStrokes(t *testing.T) {
	s := NewStore()
	a := drawStroke(t, s, Point{0, 0}, Point{1, 1})
	b := drawStroke(t, s, Point{2, 2}, Point{3, 3})
	c := drawStroke(t, s, Point{4, 4}, Point{5, 5})

	assert.Equal(t, 2, s.DeleteStrokes([]*Stroke{a, c}))
	assert.Equal(t, []*Stroke{b}, s.Strokes())
	assert.Equal(t, 0, s.DeleteStrokes([]*Stroke{a}))
}

func TestTranslateMovesPointsAndBounds(t *testing.T) {
	s := NewStore()
	a := drawStroke(t, s, Point{0, 0}, Point{10, 5})
	var last Op
	s.OnOp = func(op Op) { last = op }

	require.NoError(t, s.Translate([]*Stroke{a}, 3, -2))

	assert.Equal(t, []Point{{3, -2}, {13, 3}}, a.Points)
	assert.Equal(t, Rect{MinX: 3, MinY: -2, MaxX: 13, MaxY: 3}, a.Bounds)
	assert.Equal(t, OpTranslateStroke, last.Type)
	assert.Equal(t, 3.0, last.DX)
}

func TestTranslateZeroIsNoop(t *testing.T) {
	s := NewStore()
	a := drawStroke(t, s, Point{0, 0}, Point{10, 5})
	called := false
	s.OnOp = func(Op) { called = true }

	require.NoError(t, s.Translate([]*Stroke{a}, 0, 0))
	assert.False(t, called)
	assert.Equal(t, Point{0, 0}, a.Points[0])
}

func TestTranslateRejectsNaN(t *testing.T) {
	s := NewStore()
	a := drawStroke(t, s, Point{0, 0}, Point{10, 5})
	assert.ErrorIs(t, s.Translate([]*Stroke{a}, math.NaN(), 0), ErrInvalidPoint)
}

func TestClearAndExtent(t *testing.T) {
	s := NewStore()
	_, ok := s.Extent()
	assert.False(t, ok)

	drawStroke(t, s, Point{0, 0}, Point{10, 10})
	drawStroke(t, s, Point{-5, 20}, Point{3, 40})
	ext, ok := s.Extent()
	require.True(t, ok)
	assert.Equal(t, Rect{MinX: -5, MinY: 0, MaxX: 10, MaxY: 40}, ext)

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestRectIntersectsTouchingEdges(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	assert.True(t, a.Intersects(Rect{10, 10, 20, 20}))
	assert.False(t, a.Intersects(Rect{10.5, 0, 20, 10}))
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore()
	a := drawStroke(t, s, Point{0, 0}, Point{10, 10})
	snap := s.Snapshot()

	require.NoError(t, s.Translate([]*Stroke{a}, 5, 5))
	drawStroke(t, s, Point{50, 50}, Point{60, 60})
	assert.Equal(t, Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, snap[0].Bounds)

	var ops []OpType
	s.OnOp = func(op Op) { ops = append(ops, op.Type) }
	s.Restore(snap)
	require.Equal(t, 1, s.Len())
	restored := s.Strokes()[0]
	assert.Equal(t, a.ID, restored.ID)
	assert.Equal(t, Point{10, 10}, restored.Points[1])
	assert.Equal(t, []OpType{OpRestore}, ops)

	require.NoError(t, s.Translate([]*Stroke{restored}, 1, 1))
	assert.Equal(t, Point{10, 10}, snap[0].Points[1])
}
