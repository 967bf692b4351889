package raster

import (
	"image"
	"image/color"
	"math"
)

// rgbaf is a premultiplied colour with components in [0, 1].
type rgbaf struct{ r, g, b, a float64 }

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// composite blends colour c through m onto the surface using the current
// draw state. Shadow, when enabled, is composited first with the same op.
func (s *Surface) composite(m *mask, c color.Color) {
	if m == nil {
		return
	}
	st := s.State
	if st.ShadowBlur > 0 && st.ShadowColor.A > 0 {
		sh := blurMask(m, int(math.Ceil(st.ShadowBlur)))
		s.blend(sh, st.ShadowColor, st.Alpha, st.Op)
	}
	s.blend(m, toNRGBA(c), st.Alpha, st.Op)
}

// blend applies one coverage mask. alpha is the global alpha.
func (s *Surface) blend(m *mask, c color.NRGBA, alpha float64, op CompositeOp) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	area := image.Rectangle{Min: m.off, Max: m.off.Add(m.alpha.Rect.Size())}.Intersect(s.img.Rect)
	if area.Empty() {
		return
	}
	cr := float64(c.R) / 255
	cg := float64(c.G) / 255
	cb := float64(c.B) / 255
	ca := float64(c.A) / 255 * alpha

	for y := area.Min.Y; y < area.Max.Y; y++ {
		mi := m.alpha.PixOffset(area.Min.X-m.off.X, y-m.off.Y)
		di := s.img.PixOffset(area.Min.X, y)
		for x := area.Min.X; x < area.Max.X; x, mi, di = x+1, mi+1, di+4 {
			cov := m.alpha.Pix[mi]
			if cov == 0 {
				continue
			}
			sa := ca * float64(cov) / 255
			src := rgbaf{cr * sa, cg * sa, cb * sa, sa}
			px := s.img.Pix[di : di+4 : di+4]
			dst := rgbaf{
				float64(px[0]) / 255,
				float64(px[1]) / 255,
				float64(px[2]) / 255,
				float64(px[3]) / 255,
			}
			out := blendPixel(op, src, dst)
			px[0] = to8(out.r)
			px[1] = to8(out.g)
			px[2] = to8(out.b)
			px[3] = to8(out.a)
		}
	}
}

// blendPixel combines premultiplied source and destination.
func blendPixel(op CompositeOp, s, d rgbaf) rgbaf {
	switch op {
	case DestinationOut:
		k := 1 - s.a
		return rgbaf{d.r * k, d.g * k, d.b * k, d.a * k}
	case Multiply:
		return rgbaf{
			r: s.r*(1-d.a) + d.r*(1-s.a) + s.r*d.r,
			g: s.g*(1-d.a) + d.g*(1-s.a) + s.g*d.g,
			b: s.b*(1-d.a) + d.b*(1-s.a) + s.b*d.b,
			a: s.a + d.a*(1-s.a),
		}
	default:
		k := 1 - s.a
		return rgbaf{s.r + d.r*k, s.g + d.g*k, s.b + d.b*k, s.a + d.a*k}
	}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
