package ui

import (
	"image"
	"image/color"
	"math"

	"SuperBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// GridSize is the world spacing of the background grid.
const GridSize = 50.0

var (
	gridColor    = color.NRGBA{R: 220, G: 220, B: 220, A: 40}
	bandColor    = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	bandFill     = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0x30}
	outlineColor = color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}
)

type boardRenderer struct {
	w *BoardWidget

	background *canvas.Rectangle
	raster     *canvas.Raster
	band       *canvas.Rectangle
	grid       []fyne.CanvasObject
	outlines   []fyne.CanvasObject
	size       fyne.Size
}

func newBoardRenderer(w *BoardWidget) *boardRenderer {
	r := &boardRenderer{w: w}
	r.background = canvas.NewRectangle(w.board.Background())
	r.raster = canvas.NewRaster(r.draw)
	r.band = canvas.NewRectangle(bandFill)
	r.band.StrokeColor = bandColor
	r.band.StrokeWidth = 1
	r.band.Hide()
	return r
}

// draw renders the raster through the viewport at the device pixel size.
func (r *boardRenderer) draw(pw, ph int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, pw, ph))
	if r.size.Width <= 0 {
		return dst
	}
	ratio := float64(pw) / float64(r.size.Width)
	b := r.w.board
	ox, oy := b.Offset()
	b.Surface().RenderView(dst, nil, b.Scale()*ratio, ox*ratio, oy*ratio)
	return dst
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
	r.raster.Resize(size)
	r.layoutOverlay()
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.background}
	objects = append(objects, r.grid...)
	objects = append(objects, r.raster, r.band)
	return append(objects, r.outlines...)
}

func (r *boardRenderer) Refresh() {
	r.background.FillColor = r.w.board.Background()
	r.background.Refresh()
	r.layoutOverlay()
	r.raster.Refresh()
	canvas.Refresh(r.w)
}

func (r *boardRenderer) Destroy() {}

// layoutOverlay rebuilds the grid, the rubber band and the selection
// outlines for the current view.
func (r *boardRenderer) layoutOverlay() {
	b := r.w.board
	vp := b.Viewport()

	r.grid = r.grid[:0]
	if r.w.ShowGrid {
		step := GridSize * vp.Scale()
		ox, oy := vp.Offset()
		for x := math.Mod(ox, step); x < float64(r.size.Width); x += step {
			r.grid = append(r.grid, gridLine(fyne.NewPos(float32(x), 0), fyne.NewPos(float32(x), r.size.Height)))
		}
		for y := math.Mod(oy, step); y < float64(r.size.Height); y += step {
			r.grid = append(r.grid, gridLine(fyne.NewPos(0, float32(y)), fyne.NewPos(r.size.Width, float32(y))))
		}
	}

	if box, ok := b.Gestures().SelectionBox(); ok {
		placeRect(r.band, box)
		r.band.Show()
	} else {
		r.band.Hide()
	}

	r.outlines = r.outlines[:0]
	for _, wr := range b.Gestures().SelectionBounds() {
		tl := vp.ToScreen(state.Point{X: wr.MinX, Y: wr.MinY})
		br := vp.ToScreen(state.Point{X: wr.MaxX, Y: wr.MaxY})
		o := canvas.NewRectangle(color.Transparent)
		o.StrokeColor = outlineColor
		o.StrokeWidth = 2
		placeRect(o, state.RectFromPoints(tl, br))
		r.outlines = append(r.outlines, o)
	}
}

func gridLine(a, b fyne.Position) fyne.CanvasObject {
	line := canvas.NewLine(gridColor)
	line.Position1 = a
	line.Position2 = b
	line.StrokeWidth = 0.5
	return line
}

func placeRect(o fyne.CanvasObject, r state.Rect) {
	o.Move(fyne.NewPos(float32(r.MinX), float32(r.MinY)))
	o.Resize(fyne.NewSize(float32(r.Width()), float32(r.Height())))
}
