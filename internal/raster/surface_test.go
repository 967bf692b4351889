package raster

import (
	"context"
	"image"
	"image/color"
	"testing"

	"SuperBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

func px(s *Surface, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

func TestStrokeSegmentCoversLine(t *testing.T) {
	s := NewSurface(100, 50)
	s.StrokeSegment(state.Point{X: 10, Y: 25}, state.Point{X: 90, Y: 25}, 6, red)

	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, px(s, 50, 25))
	// Round caps extend past the endpoints by half the width.
	assert.NotZero(t, px(s, 8, 25).A)
	assert.Zero(t, px(s, 50, 40).A)
}

func TestSinglePointDrawsDot(t *testing.T) {
	s := NewSurface(20, 20)
	s.StrokePath([]state.Point{{X: 10, Y: 10}}, 6, red)
	assert.Equal(t, uint8(0xff), px(s, 10, 10).A)
	assert.Zero(t, px(s, 1, 1).A)
}

func TestOverlappingSegmentsDoNotDoubleBlend(t *testing.T) {
	s := NewSurface(60, 60)
	s.State.Alpha = 0.5
	// The path doubles back on itself.
	s.StrokePath([]state.Point{{X: 10, Y: 30}, {X: 50, Y: 30}, {X: 10, Y: 30}}, 8, red)

	a := px(s, 30, 30).A
	assert.InDelta(t, 128, int(a), 2)
}

func TestGlobalAlpha(t *testing.T) {
	s := NewSurface(40, 40)
	s.State.Alpha = 0.3
	s.FillCircle(state.Point{X: 20, Y: 20}, 10, red)
	assert.InDelta(t, 77, int(px(s, 20, 20).A), 2)
}

func TestDestinationOutErases(t *testing.T) {
	s := NewSurface(40, 40)
	s.Fill(red)
	s.State.Op = DestinationOut
	s.FillCircle(state.Point{X: 20, Y: 20}, 5, color.Black)

	assert.Zero(t, px(s, 20, 20).A)
	assert.Equal(t, uint8(0xff), px(s, 2, 2).A)
}

func TestMultiplyDarkens(t *testing.T) {
	s := NewSurface(20, 20)
	s.Fill(color.NRGBA{R: 0xff, G: 0xff, A: 0xff})
	s.State.Op = Multiply
	s.FillCircle(state.Point{X: 10, Y: 10}, 6, color.NRGBA{R: 0xff, B: 0xff, A: 0xff})

	got := px(s, 10, 10)
	assert.Equal(t, uint8(0xff), got.R)
	assert.Zero(t, got.G)
	assert.Zero(t, got.B)
	assert.Equal(t, uint8(0xff), got.A)
}

func TestMultiplyOnTransparentActsAsSource(t *testing.T) {
	s := NewSurface(20, 20)
	s.State.Op = Multiply
	s.FillCircle(state.Point{X: 10, Y: 10}, 6, red)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, px(s, 10, 10))
}

func TestShadowSpreadsBeyondShape(t *testing.T) {
	plain := NewSurface(40, 40)
	plain.FillCircle(state.Point{X: 20, Y: 20}, 5, red)

	shadowed := NewSurface(40, 40)
	shadowed.State.ShadowBlur = 2
	shadowed.State.ShadowColor = red
	shadowed.FillCircle(state.Point{X: 20, Y: 20}, 5, red)

	assert.Zero(t, px(plain, 20, 26).A)
	assert.NotZero(t, px(shadowed, 20, 26).A)
}

func TestResetState(t *testing.T) {
	s := NewSurface(4, 4)
	s.State = DrawState{Alpha: 0.2, Op: Multiply, ShadowBlur: 3, ShadowColor: red}
	s.ResetState()
	assert.Equal(t, DefaultState(), s.State)
}

func TestResizeCopiesContent(t *testing.T) {
	s := NewSurface(10, 10)
	s.Fill(red)
	s.Resize(20, 5)

	assert.Equal(t, image.Rect(0, 0, 20, 5), s.Bounds())
	assert.Equal(t, uint8(0xff), px(s, 9, 4).A)
	assert.Zero(t, px(s, 15, 2).A)
}

func TestEncodeDecodeSnapshot(t *testing.T) {
	s := NewSurface(16, 16)
	s.FillCircle(state.Point{X: 8, Y: 8}, 4, red)
	data, err := s.EncodePNG()
	require.NoError(t, err)

	img, err := Decode(context.Background(), data)
	require.NoError(t, err)

	r := NewSurface(16, 16)
	r.Replace(img)
	assert.Equal(t, s.Image().Pix, r.Image().Pix)
}

func TestDecodeHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decode(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderViewScales(t *testing.T) {
	s := NewSurface(10, 10)
	s.Fill(red)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	s.RenderView(dst, color.White, 2, 5, 5)

	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(15, 15))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, dst.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, dst.RGBAAt(30, 30))
}
