// Package export writes board pages to image, PDF and archive files and
// reads images for placement on the board.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("export: unsupported format")
	ErrNoPages           = errors.New("export: nothing to export")
)

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	PDF  Format = "pdf"
	ZIP  Format = "zip"
)

// Formats lists every export format in menu order.
var Formats = []Format{PNG, JPEG, BMP, TIFF, PDF, ZIP}

// ParseFormat accepts a format name or a file extension, with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "pdf":
		return PDF, nil
	case "zip":
		return ZIP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// MultiPage reports whether the format holds every page rather than the
// current one.
func (f Format) MultiPage() bool { return f == PDF || f == ZIP }

// Ext is the file extension, dot included.
func (f Format) Ext() string { return "." + string(f) }
