package board

import (
	"image"
	"math"
	"sort"

	"SuperBoard/internal/event"
	"SuperBoard/internal/tools"
)

// ImportFill is the share of the board an imported image may cover.
const ImportFill = 0.8

// placement is an image drawn onto the raster. seq is the store sequence
// number at the time it was placed, which orders it among the strokes.
type placement struct {
	img  image.Image
	rect image.Rectangle
	seq  uint64
}

// Redraw rebuilds the raster from the placed images and the committed
// strokes, in the order they were added.
func (b *Board) Redraw() {
	b.surface.Clear()
	b.surface.ResetState()

	strokes := b.store.Strokes()
	sort.SliceStable(strokes, func(i, j int) bool { return strokes[i].Seq < strokes[j].Seq })

	pi := 0
	for _, st := range strokes {
		for pi < len(b.placements) && b.placements[pi].seq < st.Seq {
			b.drawPlacement(b.placements[pi])
			pi++
		}
		tools.Replay(b.surface, st)
	}
	for ; pi < len(b.placements); pi++ {
		b.drawPlacement(b.placements[pi])
	}
	b.surface.ResetState()
	b.bus.Publish(event.Event{Type: event.RasterChanged})
	b.invalidate()
}

func (b *Board) drawPlacement(p placement) {
	b.surface.DrawImage(p.img, p.rect)
}

// FitRect returns where an image of size w x h is placed on a board of size
// bw x bh: centred, scaled down to at most ImportFill of either side, never
// scaled up.
func FitRect(w, h, bw, bh int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	s := math.Min(math.Min(ImportFill*float64(bw)/float64(w), ImportFill*float64(bh)/float64(h)), 1)
	dw := int(math.Round(float64(w) * s))
	dh := int(math.Round(float64(h) * s))
	x := (bw - dw) / 2
	y := (bh - dh) / 2
	return image.Rect(x, y, x+dw, y+dh)
}

// PlaceImage draws img centred on the board and snapshots.
func (b *Board) PlaceImage(img image.Image) image.Rectangle {
	if img == nil {
		return image.Rectangle{}
	}
	bw, bh := b.Size()
	r := FitRect(img.Bounds().Dx(), img.Bounds().Dy(), bw, bh)
	if r.Empty() {
		return r
	}
	p := placement{img: img, rect: r, seq: b.store.Seq()}
	b.placements = append(b.placements, p)
	b.surface.ResetState()
	b.drawPlacement(p)
	b.saveState()
	b.bus.Publish(event.Event{Type: event.RasterChanged})
	b.invalidate()
	return r
}

// LoadRaster replaces the board contents with img, typically a page
// snapshot, dropping strokes and placements and restarting history. A nil
// image leaves an empty board.
func (b *Board) LoadRaster(img image.Image) {
	b.gestures.Cancel()
	b.store.Clear()
	b.placements = nil
	b.surface.ResetState()
	b.surface.Replace(img)
	if img != nil {
		r := img.Bounds()
		b.placements = append(b.placements, placement{
			img:  img,
			rect: image.Rect(0, 0, r.Dx(), r.Dy()),
			seq:  b.store.Seq(),
		})
	}
	b.resetHistory()
	b.bus.Publish(event.Event{Type: event.RasterChanged})
	b.invalidate()
}

// Placed returns the number of images on the board.
func (b *Board) Placed() int { return len(b.placements) }
