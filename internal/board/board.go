// Package board wires the viewport, stroke store, raster surface, history
// and gesture engine into one drawing board and exposes its commands,
// queries and events.
package board

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"SuperBoard/internal/event"
	"SuperBoard/internal/gesture"
	"SuperBoard/internal/history"
	"SuperBoard/internal/logging"
	"SuperBoard/internal/raster"
	"SuperBoard/internal/state"
	"SuperBoard/internal/tools"
)

var ErrUnknownTool = errors.New("board: unknown tool")

// DefaultBackground is the chalkboard green shown behind the raster.
var DefaultBackground = color.NRGBA{0x0d, 0x2b, 0x20, 0xff}

type Options struct {
	Width, Height int
	Background    color.Color
	MaxHistory    int
	HistoryCache  int
	// Dispatcher runs history completions on the UI goroutine. Required.
	Dispatcher history.Dispatcher
	// Bus is created when nil.
	Bus *event.Bus
}

type Board struct {
	bus      *event.Bus
	vp       *state.Viewport
	store    *state.Store
	surface  *raster.Surface
	hist     *history.Manager
	gestures *gesture.Engine
	tools    *tools.Set

	background color.Color
	tool       string
	drawing    bool
	placements []placement
	chrome     map[string]struct{}
	// chromeTouch is set while a touch sequence that began on chrome is
	// still down.
	chromeTouch bool

	// OnInvalidate is called whenever the displayed board needs repainting.
	OnInvalidate func()
}

func New(opts Options) (*Board, error) {
	if opts.Dispatcher == nil {
		return nil, errors.New("board: dispatcher is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("board: invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	if opts.Background == nil {
		opts.Background = DefaultBackground
	}

	b := &Board{
		bus:        opts.Bus,
		vp:         state.NewViewport(),
		store:      state.NewStore(),
		surface:    raster.NewSurface(opts.Width, opts.Height),
		tools:      tools.NewSet(),
		background: opts.Background,
		tool:       tools.NamePen,
		chrome:     make(map[string]struct{}),
	}
	for _, name := range DefaultChrome {
		b.chrome[name] = struct{}{}
	}

	var hopts []history.Option
	if opts.MaxHistory > 0 {
		hopts = append(hopts, history.WithMaxHistory(opts.MaxHistory))
	}
	if opts.HistoryCache != 0 {
		hopts = append(hopts, history.WithCacheSize(opts.HistoryCache))
	}
	b.hist = history.NewManager(raster.Decode, opts.Dispatcher, hopts...)
	b.gestures = gesture.NewEngine(b.vp, b.store, b)

	b.hist.OnRestore = b.restore
	b.hist.OnChange = func(canUndo, canRedo bool) {
		b.bus.Publish(event.Event{Type: event.HistoryChanged, CanUndo: canUndo, CanRedo: canRedo})
	}
	b.vp.OnChange = func() {
		b.bus.Publish(event.Event{Type: event.ViewChanged, Count: b.vp.ZoomPercent()})
		b.invalidate()
	}
	b.store.OnOp = func(op state.Op) {
		logging.Logger().Debug("board: store op", "type", string(op.Type), "seq", op.Seq, "strokes", len(op.Strokes))
		b.bus.Publish(event.Event{Type: event.StrokesChanged, Count: b.store.Len()})
	}
	b.tools.Attach(b.bus)

	b.resetHistory()
	return b, nil
}

func (b *Board) Bus() *event.Bus           { return b.bus }
func (b *Board) Viewport() *state.Viewport { return b.vp }
func (b *Board) Store() *state.Store       { return b.store }
func (b *Board) Surface() *raster.Surface  { return b.surface }
func (b *Board) History() *history.Manager { return b.hist }
func (b *Board) Gestures() *gesture.Engine { return b.gestures }
func (b *Board) Tools() *tools.Set         { return b.tools }
func (b *Board) Background() color.Color   { return b.background }
func (b *Board) Tool() string              { return b.tool }
func (b *Board) Scale() float64            { return b.vp.Scale() }
func (b *Board) Offset() (x, y float64)    { return b.vp.Offset() }
func (b *Board) CanUndo() bool             { return b.hist.CanUndo() }
func (b *Board) CanRedo() bool             { return b.hist.CanRedo() }
func (b *Board) Drawing() bool             { return b.drawing }

func (b *Board) Size() (width, height int) {
	r := b.surface.Bounds()
	return r.Dx(), r.Dy()
}

func (b *Board) SetBackground(c color.Color) {
	b.background = c
	b.invalidate()
}

// SetTool switches the active tool. Any gesture in progress is cancelled
// and the selection is cleared.
func (b *Board) SetTool(name string) error {
	switch name {
	case tools.NamePen, tools.NameEraser, tools.NameSelect:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	b.gestures.Cancel()
	if name == tools.NameSelect {
		b.gestures.SetMode(gesture.ModeSelect)
	} else {
		b.gestures.SetMode(gesture.ModeDraw)
	}
	b.tool = name
	b.bus.Publish(event.Event{Type: event.ToolSwitched, Tool: name})
	b.invalidate()
	return nil
}

// Undo restores the previous snapshot: the raster, the strokes and the
// placed images. The restore lands asynchronously.
func (b *Board) Undo() bool {
	b.gestures.Cancel()
	return b.hist.Undo()
}

func (b *Board) Redo() bool {
	b.gestures.Cancel()
	return b.hist.Redo()
}

// Clear erases the raster, the strokes and placed images, then snapshots.
func (b *Board) Clear() {
	b.gestures.Cancel()
	b.store.Clear()
	b.placements = nil
	b.surface.Clear()
	b.surface.ResetState()
	b.saveState()
	b.invalidate()
}

func (b *Board) SetScale(s float64)     { b.vp.SetScale(s) }
func (b *Board) Wheel(deltaY float64)   { b.vp.Wheel(deltaY) }
func (b *Board) Pan(dx, dy float64)     { b.vp.Pan(dx, dy) }
func (b *Board) ResetToOrigin()         { b.vp.ResetToOrigin() }
func (b *Board) ZoomStep(steps int)     { b.vp.ZoomStep(steps) }
func (b *Board) SetZoomPercent(pct int) { b.vp.SetZoomPercent(pct) }

// BackToBottom scrolls to the lowest stroke for a view of the given screen
// height.
func (b *Board) BackToBottom(viewHeight float64) {
	ext, ok := b.store.Extent()
	b.vp.BackToBottom(ext, ok, viewHeight)
}

// DeleteStrokes removes strokes, redraws and snapshots.
func (b *Board) DeleteStrokes(list []*state.Stroke) {
	if b.store.DeleteStrokes(list) == 0 {
		return
	}
	b.Redraw()
	b.saveState()
}

// DeleteSelection deletes the strokes selected with the select tool.
func (b *Board) DeleteSelection() { b.gestures.DeleteSelection() }

func (b *Board) StrokesInRect(r state.Rect) []*state.Stroke { return b.store.StrokesInRect(r) }

// Resize changes the raster size, copying the existing pixels.
func (b *Board) Resize(w, h int) {
	b.surface.Resize(w, h)
	b.invalidate()
}

// ExportImage encodes the current raster as PNG.
func (b *Board) ExportImage() ([]byte, error) {
	return b.surface.EncodePNG()
}

// Snapshot returns a copy of the current raster.
func (b *Board) Snapshot() *image.RGBA { return b.surface.Snapshot() }

// Flatten returns the raster composited over the background.
func (b *Board) Flatten() *image.RGBA { return b.surface.Flatten(b.background) }

func (b *Board) saveState() {
	data, err := b.surface.EncodePNG()
	if err != nil {
		logging.Logger().Error("board: snapshot failed", "err", err)
		return
	}
	b.hist.Save(data, b.surface.Snapshot(), b.content())
}

func (b *Board) resetHistory() {
	data, err := b.surface.EncodePNG()
	if err != nil {
		logging.Logger().Error("board: snapshot failed", "err", err)
		return
	}
	b.hist.Reset(data, b.surface.Snapshot(), b.content())
}

// content is what a history entry holds besides the raster.
type content struct {
	strokes    []*state.Stroke
	placements []placement
}

func (b *Board) content() content {
	return content{strokes: b.store.Snapshot(), placements: slices.Clone(b.placements)}
}

func (b *Board) restore(img image.Image, saved any) {
	b.surface.Replace(img)
	b.surface.ResetState()
	if c, ok := saved.(content); ok {
		if !b.drawing {
			b.gestures.Cancel()
		}
		b.store.Restore(c.strokes)
		b.placements = slices.Clone(c.placements)
	}
	b.bus.Publish(event.Event{Type: event.RasterChanged})
	b.invalidate()
}

func (b *Board) invalidate() {
	if b.OnInvalidate != nil {
		b.OnInvalidate()
	}
}
