package raster

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ViewMatrix is the world-to-screen affine transform
// screen = world*scale + offset.
func ViewMatrix(scale, offsetX, offsetY float64) f64.Aff3 {
	return f64.Aff3{
		scale, 0, offsetX,
		0, scale, offsetY,
	}
}

// RenderView paints the surface onto dst through the view transform, over a
// solid background.
func (s *Surface) RenderView(dst xdraw.Image, bg color.Color, scale, offsetX, offsetY float64) {
	if bg != nil {
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
	}
	m := ViewMatrix(scale, offsetX, offsetY)
	if scale == 1 {
		sp := image.Pt(int(offsetX), int(offsetY))
		if float64(sp.X) == offsetX && float64(sp.Y) == offsetY {
			r := s.img.Rect.Add(sp).Intersect(dst.Bounds())
			xdraw.Draw(dst, r, s.img, r.Min.Sub(sp), xdraw.Over)
			return
		}
	}
	xdraw.ApproxBiLinear.Transform(dst, m, s.img, s.img.Rect, xdraw.Over, nil)
}

// Flatten returns the surface composited over bg, fully opaque. Used by
// exporters for formats without alpha.
func (s *Surface) Flatten(bg color.Color) *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	if bg == nil {
		bg = color.White
	}
	xdraw.Draw(out, out.Rect, image.NewUniform(bg), image.Point{}, xdraw.Src)
	xdraw.Draw(out, out.Rect, s.img, image.Point{}, xdraw.Over)
	return out
}
