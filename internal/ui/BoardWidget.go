package ui

import (
	"SuperBoard/internal/board"
	"SuperBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// canvasTarget is the element path reported for input on the drawing area.
const canvasTarget = "canvas"

// BoardWidget shows the board through its viewport and feeds mouse input
// into it.
type BoardWidget struct {
	widget.BaseWidget
	board     *board.Board
	statusBar *widget.Label

	ShowGrid bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board) *BoardWidget {
	w := &BoardWidget{
		board:     b,
		statusBar: widget.NewLabel("Ready"),
		ShowGrid:  true,
	}
	w.ExtendBaseWidget(w)
	b.OnInvalidate = w.Refresh
	return w
}

func (w *BoardWidget) Board() *board.Board { return w.board }

func (w *BoardWidget) ToggleGrid() {
	w.ShowGrid = !w.ShowGrid
	w.Refresh()
}

// SetStatus may be called from any goroutine.
func (w *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		w.statusBar.SetText(text)
	})
}

func point(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	w.board.PointerDown(point(e.Position), e.Button == desktop.MouseButtonPrimary, canvasTarget)
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.board.PointerUp()
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.board.PointerMove(point(e.Position))
}

func (w *BoardWidget) DragEnd() {}

func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY == 0 {
		return
	}
	w.board.Wheel(float64(-e.Scrolled.DY))
}

func (w *BoardWidget) DoubleTapped(*fyne.PointEvent) {
	w.board.DoubleTap(canvasTarget)
}

// Resize grows the board raster to cover the widget. The raster never
// shrinks, so content outside a smaller window is kept.
func (w *BoardWidget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)
	bw, bh := w.board.Size()
	nw, nh := max(bw, int(size.Width)), max(bh, int(size.Height))
	if nw != bw || nh != bh {
		w.board.Resize(nw, nh)
	}
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(w)
}
