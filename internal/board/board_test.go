package board

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"testing"
	"time"

	"SuperBoard/internal/event"
	"SuperBoard/internal/gesture"
	"SuperBoard/internal/logging"
	"SuperBoard/internal/raster"
	"SuperBoard/internal/state"
	"SuperBoard/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queue chan func()

func (q queue) Dispatch(fn func()) { q <- fn }

func (q queue) drain(t *testing.T) {
	t.Helper()
	select {
	case fn := <-q:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("no history completion")
	}
}

func newBoard(t *testing.T, opts ...func(*Options)) (*Board, queue) {
	t.Helper()
	q := make(queue, 16)
	o := Options{Width: 200, Height: 100, Dispatcher: q, HistoryCache: -1}
	for _, fn := range opts {
		fn(&o)
	}
	b, err := New(o)
	require.NoError(t, err)
	return b, q
}

func drag(b *Board, pts ...state.Point) {
	b.PointerDown(pts[0], true, "canvas")
	for _, p := range pts[1:] {
		b.PointerMove(p)
	}
	b.PointerUp()
}

func opaquePixels(s *raster.Surface) int {
	n := 0
	pix := s.Image().Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestNewValidates(t *testing.T) {
	_, err := New(Options{Width: 10, Height: 10})
	assert.Error(t, err)
	_, err = New(Options{Width: 0, Height: 10, Dispatcher: make(queue)})
	assert.Error(t, err)
}

func TestPenStrokeCommitsAndSnapshots(t *testing.T) {
	b, _ := newBoard(t)
	var types []event.Type
	b.Bus().Subscribe(func(e event.Event) { types = append(types, e.Type) },
		event.DrawStart, event.DrawMove, event.DrawEnd)

	drag(b, state.Point{X: 10, Y: 10}, state.Point{X: 60, Y: 40}, state.Point{X: 120, Y: 50})

	assert.Equal(t, 1, b.Store().Len())
	assert.Equal(t, 2, b.History().Len())
	assert.NotZero(t, opaquePixels(b.Surface()))
	assert.Equal(t, []event.Type{event.DrawStart, event.DrawMove, event.DrawMove, event.DrawEnd}, types)
	assert.Equal(t, "pencil", b.Store().Strokes()[0].Style.Kind)
}

func TestTapIsDiscardedButSnapshotted(t *testing.T) {
	b, _ := newBoard(t)
	drag(b, state.Point{X: 10, Y: 10})
	assert.Equal(t, 0, b.Store().Len())
	assert.Equal(t, 2, b.History().Len())
}

func TestChromeTargetsDoNotDraw(t *testing.T) {
	b, _ := newBoard(t)
	b.PointerDown(state.Point{X: 10, Y: 10}, true, "root/toolbar-group/button")
	b.PointerMove(state.Point{X: 50, Y: 50})
	assert.False(t, b.Drawing())

	b.Touch([]gesture.Contact{{ID: 1, X: 5, Y: 5}}, "root/tool-popup")
	assert.Equal(t, 0, b.Gestures().Contacts())

	assert.True(t, b.IsChrome("selection-handle"))
	assert.False(t, b.IsChrome("root/canvas"))
	b.RegisterChrome("zoom-control")
	assert.True(t, b.IsChrome("root/zoom-control/span"))
}

func TestChromeTouchLiftIsSilent(t *testing.T) {
	var logs bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { logging.SetLogger(nil) })

	b, _ := newBoard(t)
	b.Touch([]gesture.Contact{{ID: 1, X: 5, Y: 5}}, "root/tool-popup")
	b.Touch([]gesture.Contact{{ID: 1, X: 9, Y: 9}}, "root/canvas")
	b.Touch(nil, "root/tool-popup")
	assert.Empty(t, logs.String())
	assert.False(t, b.Drawing())

	b.Touch([]gesture.Contact{{ID: 2, X: 10, Y: 10}}, "root/canvas")
	assert.True(t, b.Drawing())
	b.Touch(nil, "root/canvas")
	assert.False(t, b.Drawing())
}

func TestCompositingResetAfterEraser(t *testing.T) {
	b, _ := newBoard(t)
	require.NoError(t, b.Tools().Pen.SetType(tools.Highlighter))
	b.PointerDown(state.Point{X: 10, Y: 50}, true, "canvas")
	assert.Equal(t, raster.Multiply, b.Surface().State.Op)
	assert.InDelta(t, 0.3, b.Surface().State.Alpha, 1e-9)
	b.PointerMove(state.Point{X: 190, Y: 50})
	b.PointerUp()
	assert.Equal(t, raster.DefaultState(), b.Surface().State)

	require.NoError(t, b.SetTool(tools.NameEraser))
	b.PointerDown(state.Point{X: 100, Y: 50}, true, "canvas")
	assert.Equal(t, raster.DestinationOut, b.Surface().State.Op)
	b.PointerMove(state.Point{X: 101, Y: 50})
	b.PointerUp()
	assert.Equal(t, raster.DefaultState(), b.Surface().State)

	require.NoError(t, b.SetTool(tools.NamePen))
	require.NoError(t, b.Tools().Pen.SetType(tools.Pencil))
	b.PointerDown(state.Point{X: 10, Y: 10}, true, "canvas")
	assert.Equal(t, raster.SourceOver, b.Surface().State.Op)
	assert.Equal(t, 1.0, b.Surface().State.Alpha)
	b.PointerUp()
}

func TestUndoRestoresRasterAndStrokes(t *testing.T) {
	b, q := newBoard(t)
	drag(b, state.Point{X: 10, Y: 50}, state.Point{X: 190, Y: 50})
	require.NotZero(t, opaquePixels(b.Surface()))

	var history []bool
	b.Bus().Subscribe(func(e event.Event) { history = append(history, e.CanRedo) }, event.HistoryChanged)

	require.True(t, b.Undo())
	q.drain(t)
	assert.Zero(t, opaquePixels(b.Surface()))
	assert.Equal(t, 0, b.Store().Len())
	assert.True(t, b.CanRedo())
	assert.NotEmpty(t, history)

	require.True(t, b.Redo())
	q.drain(t)
	assert.NotZero(t, opaquePixels(b.Surface()))
	assert.Equal(t, 1, b.Store().Len())
}

func TestUndoneStrokeStaysGoneAfterDrag(t *testing.T) {
	b, q := newBoard(t)
	drag(b, state.Point{X: 10, Y: 10}, state.Point{X: 40, Y: 30})
	drag(b, state.Point{X: 10, Y: 70}, state.Point{X: 60, Y: 90})
	require.NotZero(t, b.Surface().Image().RGBAAt(35, 80).A)

	require.True(t, b.Undo())
	q.drain(t)
	require.Zero(t, b.Surface().Image().RGBAAt(35, 80).A)
	require.Equal(t, 1, b.Store().Len())

	require.NoError(t, b.SetTool(tools.NameSelect))
	drag(b, state.Point{X: 0, Y: 0}, state.Point{X: 200, Y: 100})
	require.Len(t, b.Gestures().Selection(), 1)
	drag(b, state.Point{X: 25, Y: 20}, state.Point{X: 125, Y: 20})

	assert.Equal(t, 1, b.Store().Len())
	assert.Zero(t, b.Surface().Image().RGBAAt(35, 80).A)
	assert.NotZero(t, b.Surface().Image().RGBAAt(125, 20).A)
	assert.False(t, b.CanRedo())
}

func TestUndoRestoresPlacements(t *testing.T) {
	b, q := newBoard(t)
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	require.False(t, b.PlaceImage(img).Empty())
	require.Equal(t, 1, b.Placed())

	require.True(t, b.Undo())
	q.drain(t)
	assert.Zero(t, b.Placed())
	b.Redraw()
	assert.Zero(t, opaquePixels(b.Surface()))
}

func TestSelectDragThroughBoard(t *testing.T) {
	b, _ := newBoard(t)
	drag(b, state.Point{X: 20, Y: 20}, state.Point{X: 40, Y: 30})
	require.NoError(t, b.SetTool(tools.NameSelect))

	var selected []int
	b.Bus().Subscribe(func(e event.Event) { selected = append(selected, e.Count) }, event.SelectionChanged)

	drag(b, state.Point{X: 0, Y: 0}, state.Point{X: 100, Y: 100})
	require.Len(t, b.Gestures().Selection(), 1)

	before := b.History().Len()
	drag(b, state.Point{X: 30, Y: 25}, state.Point{X: 80, Y: 65})

	st := b.Store().Strokes()[0]
	assert.Equal(t, state.Rect{MinX: 70, MinY: 60, MaxX: 90, MaxY: 70}, st.Bounds)
	assert.Equal(t, before+1, b.History().Len())
	assert.Equal(t, []int{1, 0}, selected)
	assert.NotZero(t, b.Surface().Image().RGBAAt(80, 65).A)
	assert.Zero(t, b.Surface().Image().RGBAAt(30, 25).A)
}

func TestDeleteSelection(t *testing.T) {
	b, _ := newBoard(t)
	drag(b, state.Point{X: 20, Y: 20}, state.Point{X: 40, Y: 30})
	require.NoError(t, b.SetTool(tools.NameSelect))
	drag(b, state.Point{X: 0, Y: 0}, state.Point{X: 100, Y: 100})

	b.DeleteSelection()
	assert.Equal(t, 0, b.Store().Len())
	assert.Zero(t, opaquePixels(b.Surface()))
}

func TestDoubleTapPublishesPageNew(t *testing.T) {
	b, _ := newBoard(t)
	n := 0
	b.Bus().Subscribe(func(event.Event) { n++ }, event.PageNew)

	b.DoubleTap("canvas")
	assert.Zero(t, n)
	require.NoError(t, b.SetTool(tools.NameSelect))
	b.DoubleTap("dynamic-island")
	assert.Zero(t, n)
	b.DoubleTap("canvas")
	assert.Equal(t, 1, n)
}

func TestSetToolUnknown(t *testing.T) {
	b, _ := newBoard(t)
	assert.ErrorIs(t, b.SetTool("laser"), ErrUnknownTool)
	assert.Equal(t, tools.NamePen, b.Tool())
}

func TestClear(t *testing.T) {
	b, _ := newBoard(t)
	drag(b, state.Point{X: 20, Y: 20}, state.Point{X: 40, Y: 30})
	b.Clear()
	assert.Equal(t, 0, b.Store().Len())
	assert.Zero(t, opaquePixels(b.Surface()))
	assert.Equal(t, 3, b.History().Len())
}

func TestFitRect(t *testing.T) {
	assert.Equal(t, image.Rect(80, 140, 720, 460), FitRect(1000, 500, 800, 600))
	assert.Equal(t, image.Rect(350, 250, 450, 350), FitRect(100, 100, 800, 600))
	assert.True(t, FitRect(0, 10, 800, 600).Empty())
}

func TestPlaceImageSurvivesRedraw(t *testing.T) {
	b, _ := newBoard(t)
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i-3] = 0xff
		img.Pix[i] = 0xff
	}
	r := b.PlaceImage(img)
	assert.Equal(t, image.Rect(80, 40, 120, 60), r)
	assert.Equal(t, 2, b.History().Len())

	b.Redraw()
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, b.Surface().Image().RGBAAt(100, 50))
}

func TestLoadRasterResetsHistory(t *testing.T) {
	b, _ := newBoard(t)
	drag(b, state.Point{X: 20, Y: 20}, state.Point{X: 40, Y: 30})
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Pix[3] = 0xff

	b.LoadRaster(img)
	assert.Equal(t, 1, b.History().Len())
	assert.False(t, b.CanUndo())
	assert.Equal(t, 0, b.Store().Len())
	assert.Equal(t, 1, b.Placed())
	assert.Equal(t, uint8(0xff), b.Surface().Image().Pix[3])

	b.LoadRaster(nil)
	assert.Zero(t, opaquePixels(b.Surface()))
}

func TestViewCommands(t *testing.T) {
	b, _ := newBoard(t)
	var zoom []int
	b.Bus().Subscribe(func(e event.Event) { zoom = append(zoom, e.Count) }, event.ViewChanged)

	b.Wheel(-1)
	b.ZoomStep(-2)
	assert.Equal(t, []int{110, 90}, zoom)

	b.SetScale(1)
	drag(b, state.Point{X: 20, Y: 20}, state.Point{X: 40, Y: 90})
	b.BackToBottom(100)
	_, y := b.Offset()
	assert.Equal(t, -90.0, y)
}
