package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImportSide bounds either side of an imported image.
const MaxImportSide = 8192

var (
	ErrEmptyData     = errors.New("export: empty image data")
	ErrImageTooLarge = errors.New("export: image too large")
)

// Decode reads an image in any registered format and returns it with the
// format name. The dimensions are checked before the pixels are decoded.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("export: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if err != nil {
		return nil, "", fmt.Errorf("export: decode %s header: %w", format, err)
	}
	if cfg.Width > MaxImportSide || cfg.Height > MaxImportSide {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("export: decode %s: %w", format, err)
	}
	return img, format, nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("export: open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}
