// Package raster holds the fixed-resolution drawing surface that pen and
// eraser strokes are composited onto.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// CompositeOp selects how new pixels combine with what is already on the
// surface.
type CompositeOp int

const (
	SourceOver CompositeOp = iota
	Multiply
	DestinationOut
)

func (op CompositeOp) String() string {
	switch op {
	case SourceOver:
		return "source-over"
	case Multiply:
		return "multiply"
	case DestinationOut:
		return "destination-out"
	default:
		return "unknown"
	}
}

// DrawState is the mutable paint state applied by every drawing call.
type DrawState struct {
	Alpha       float64
	Op          CompositeOp
	ShadowBlur  float64
	ShadowColor color.NRGBA
}

// DefaultState is the state a surface returns to after every stroke.
func DefaultState() DrawState {
	return DrawState{Alpha: 1, Op: SourceOver}
}

// Surface is a premultiplied RGBA raster addressed in world pixels.
type Surface struct {
	img   *image.RGBA
	State DrawState
}

func NewSurface(w, h int) *Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		State: DefaultState(),
	}
}

// Image returns the backing image. Callers must not keep it across draws.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// ResetState restores full opacity, source-over and no shadow.
func (s *Surface) ResetState() { s.State = DefaultState() }

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Fill paints the whole surface with c, replacing its contents.
func (s *Surface) Fill(c color.Color) {
	xdraw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

// DrawImage scales img into dst with source-over, ignoring the draw state.
func (s *Surface) DrawImage(img image.Image, dst image.Rectangle) {
	if img == nil || dst.Empty() {
		return
	}
	if dst.Dx() == img.Bounds().Dx() && dst.Dy() == img.Bounds().Dy() {
		xdraw.Draw(s.img, dst, img, img.Bounds().Min, xdraw.Over)
		return
	}
	xdraw.CatmullRom.Scale(s.img, dst, img, img.Bounds(), xdraw.Over, nil)
}

// Replace clears the surface and copies img at the origin without scaling.
// Whatever falls outside the surface is cropped.
func (s *Surface) Replace(img image.Image) {
	s.Clear()
	if img == nil {
		return
	}
	b := img.Bounds()
	xdraw.Copy(s.img, image.Point{}, img, b, xdraw.Src, nil)
}

// Resize changes the surface dimensions, keeping the existing pixels at the
// origin. Content is copied, never re-rendered.
func (s *Surface) Resize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	if w == s.img.Bounds().Dx() && h == s.img.Bounds().Dy() {
		return
	}
	old := s.img
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Copy(s.img, image.Point{}, old, old.Bounds(), xdraw.Src, nil)
}

// Clone returns an independent copy of the pixels and state.
func (s *Surface) Clone() *Surface {
	img := image.NewRGBA(s.img.Bounds())
	copy(img.Pix, s.img.Pix)
	return &Surface{img: img, State: s.State}
}

// Snapshot returns a copy of the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	return s.Clone().img
}

// EncodePNG encodes the surface for the history stack and page snapshots.
func (s *Surface) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("encode surface: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode decodes a PNG produced by EncodePNG. It gives up early when ctx is
// already done.
func Decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode surface: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}
