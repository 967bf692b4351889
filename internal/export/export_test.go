package export

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsummers/gobmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var bg = color.NRGBA{0x0d, 0x2b, 0x20, 0xff}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{".JPEG", JPEG},
		{"jpg", JPEG},
		{"tif", TIFF},
		{" pdf ", PDF},
		{".zip", ZIP},
		{"bmp", BMP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseFormat("svg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	f, err := FormatFromPath("/tmp/notes.Tiff")
	require.NoError(t, err)
	assert.Equal(t, TIFF, f)
	assert.True(t, ZIP.MultiPage())
	assert.False(t, PNG.MultiPage())
}

func TestFlatten(t *testing.T) {
	out := Flatten(page(color.RGBA{R: 0xff, A: 0xff}), bg)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, out.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0x0d, 0x2b, 0x20, 0xff}, out.RGBAAt(12, 1))

	out = Flatten(page(color.RGBA{}), nil)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, out.RGBAAt(1, 1))
}

func TestPNGKeepsTransparency(t *testing.T) {
	var buf bytes.Buffer
	doc := Document{Pages: []image.Image{page(color.RGBA{G: 0xff, A: 0xff})}, Background: bg}
	require.NoError(t, Write(&buf, PNG, doc))

	img, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	_, _, _, a := img.At(12, 1).RGBA()
	assert.Zero(t, a)
}

func TestBMPIsFlattened(t *testing.T) {
	var buf bytes.Buffer
	doc := Document{Pages: []image.Image{page(color.RGBA{B: 0xff, A: 0xff})}, Background: bg}
	require.NoError(t, Write(&buf, BMP, doc))

	img, err := gobmp.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	r, g, b, a := img.At(12, 1).RGBA()
	assert.Equal(t, [4]uint32{0x0d0d, 0x2b2b, 0x2020, 0xffff}, [4]uint32{r, g, b, a})
}

func TestSingleImageFormatsUseCurrentPage(t *testing.T) {
	doc := Document{
		Pages:      []image.Image{page(color.RGBA{R: 0xff, A: 0xff}), page(color.RGBA{B: 0xff, A: 0xff})},
		Current:    1,
		Background: bg,
	}
	for _, f := range []Format{PNG, JPEG, BMP, TIFF} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, doc), f)
		img, _, err := Decode(&buf)
		require.NoError(t, err, f)
		r, _, b, _ := img.At(2, 2).RGBA()
		assert.Greater(t, b, r, f)
	}

	_, err := doc.current()
	require.NoError(t, err)
	doc.Current = 5
	assert.Error(t, Write(&bytes.Buffer{}, PNG, doc))
	assert.ErrorIs(t, Write(&bytes.Buffer{}, PDF, Document{}), ErrNoPages)
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, Format("svg"), page(color.RGBA{}), nil), ErrUnsupportedFormat)
}

func TestZipHoldsEveryPage(t *testing.T) {
	var buf bytes.Buffer
	doc := Document{Pages: []image.Image{page(color.RGBA{A: 0xff}), page(color.RGBA{A: 0xff}), page(color.RGBA{A: 0xff})}}
	require.NoError(t, Write(&buf, ZIP, doc))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"page-001.png", "page-002.png", "page-003.png"}, names)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	doc := Document{Pages: []image.Image{page(color.RGBA{R: 0xff, A: 0xff}), page(color.RGBA{G: 0xff, A: 0xff})}, Background: bg}
	require.NoError(t, Write(&buf, PDF, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	doc := Document{Pages: []image.Image{page(color.RGBA{R: 0xff, A: 0xff})}}

	path := filepath.Join(dir, "board.jpg")
	require.NoError(t, WriteFile(path, doc))
	img, format, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, img.Bounds().Dx())

	assert.ErrorIs(t, WriteFile(filepath.Join(dir, "board.svg"), doc), ErrUnsupportedFormat)
	_, err = os.Stat(filepath.Join(dir, "board.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestDecodeRejects(t *testing.T) {
	_, _, err := Decode(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyData)

	_, _, err = Decode(bytes.NewReader([]byte("not an image at all")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, PNG, image.NewGray(image.Rect(0, 0, MaxImportSide+1, 1)), nil))
	_, _, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
