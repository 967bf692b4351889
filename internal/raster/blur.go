package raster

import "image"

// blurMask returns a box-blurred copy of m, horizontally then vertically.
// The mask is expected to already carry radius pixels of padding.
func blurMask(m *mask, radius int) *mask {
	if radius <= 0 {
		return m
	}
	w, h := m.alpha.Rect.Dx(), m.alpha.Rect.Dy()
	tmp := make([]uint8, w*h)
	out := image.NewAlpha(image.Rect(0, 0, w, h))
	n := 2*radius + 1

	for y := 0; y < h; y++ {
		row := m.alpha.Pix[y*m.alpha.Stride : y*m.alpha.Stride+w]
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += sample(row, x)
		}
		for x := 0; x < w; x++ {
			tmp[y*w+x] = uint8(sum / n)
			sum += sample(row, x+radius+1) - sample(row, x-radius)
		}
	}

	col := make([]uint8, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = tmp[y*w+x]
		}
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += sample(col, y)
		}
		for y := 0; y < h; y++ {
			out.Pix[y*out.Stride+x] = uint8(sum / n)
			sum += sample(col, y+radius+1) - sample(col, y-radius)
		}
	}
	return &mask{alpha: out, off: m.off}
}

func sample(p []uint8, i int) int {
	if i < 0 || i >= len(p) {
		return 0
	}
	return int(p[i])
}
