package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// pointsPerPixel maps 96 dpi board pixels to PDF points.
const pointsPerPixel = 72.0 / 96.0

// writePDF puts each page on its own PDF page sized to the page image.
func writePDF(w io.Writer, doc Document) error {
	p := gofpdf.New("P", "pt", "A4", "")
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)

	for i, img := range doc.Pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, Flatten(img, doc.Background)); err != nil {
			return fmt.Errorf("export: pdf page %d: %w", i+1, err)
		}
		wd := float64(img.Bounds().Dx()) * pointsPerPixel
		ht := float64(img.Bounds().Dy()) * pointsPerPixel

		name := fmt.Sprintf("page-%d", i+1)
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		p.AddPageFormat("P", gofpdf.SizeType{Wd: wd, Ht: ht})
		p.RegisterImageOptionsReader(name, opt, &buf)
		p.ImageOptions(name, 0, 0, wd, ht, false, opt, 0, "")
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return nil
}
