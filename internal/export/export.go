package export

import (
	"archive/zip"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"SuperBoard/internal/logging"

	"github.com/jsummers/gobmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 90

// Document is what gets exported: the board pages in order, which one is on
// screen, and the background shown behind them.
type Document struct {
	Pages      []image.Image
	Current    int
	Background color.Color
}

func (d Document) current() (image.Image, error) {
	if len(d.Pages) == 0 {
		return nil, ErrNoPages
	}
	if d.Current < 0 || d.Current >= len(d.Pages) {
		return nil, fmt.Errorf("export: page %d of %d", d.Current+1, len(d.Pages))
	}
	return d.Pages[d.Current], nil
}

// Write encodes doc as f. Single-image formats take the current page; PDF and
// ZIP take every page. PNG and TIFF keep transparency; the other formats are
// flattened over the background.
func Write(w io.Writer, f Format, doc Document) error {
	if f.MultiPage() {
		if len(doc.Pages) == 0 {
			return ErrNoPages
		}
		switch f {
		case PDF:
			return writePDF(w, doc)
		default:
			return writeZip(w, doc)
		}
	}
	img, err := doc.current()
	if err != nil {
		return err
	}
	return Encode(w, f, img, doc.Background)
}

// Encode writes a single image.
func Encode(w io.Writer, f Format, img image.Image, bg color.Color) error {
	var err error
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		err = enc.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case JPEG:
		err = jpeg.Encode(w, Flatten(img, bg), &jpeg.Options{Quality: JPEGQuality})
	case BMP:
		err = gobmp.Encode(w, Flatten(img, bg))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("export: encode %s: %w", f, err)
	}
	return nil
}

// WriteFile creates path and writes doc to it in the format named by the
// path's extension.
func WriteFile(path string, doc Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("export: create file: %w", err)
	}
	if err := Write(file, f, doc); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("export: close file: %w", err)
	}
	logging.Logger().Info("export: written", "path", path, "format", string(f), "pages", len(doc.Pages))
	return nil
}

// Flatten composites img over an opaque background. A nil background is
// white.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	if bg == nil {
		bg = color.White
	}
	r := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
	xdraw.Draw(out, out.Bounds(), img, r.Min, xdraw.Over)
	return out
}

// writeZip stores every page as a numbered PNG.
func writeZip(w io.Writer, doc Document) error {
	zw := zip.NewWriter(w)
	for i, img := range doc.Pages {
		fw, err := zw.Create(fmt.Sprintf("page-%03d.png", i+1))
		if err != nil {
			return fmt.Errorf("export: zip page %d: %w", i+1, err)
		}
		if err := Encode(fw, PNG, img, doc.Background); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("export: zip: %w", err)
	}
	return nil
}
