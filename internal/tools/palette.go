package tools

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"
)

var ErrInvalidColor = errors.New("invalid colour")

// PresetColors are always offered and cannot be removed.
var PresetColors = []string{
	"#ffffff",
	"#000000",
	"#ff0000",
	"#00ff00",
	"#0000ff",
	"#ffff00",
	"#ff00ff",
}

// ParseHexColor parses #rgb or #rrggbb.
func ParseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xff}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		return c, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if err != nil {
		return c, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette is the preset colours followed by user-added ones.
type Palette struct {
	custom []string
}

func (p *Palette) Colors() []string {
	return append(slices.Clone(PresetColors), p.custom...)
}

func (p *Palette) Custom() []string { return slices.Clone(p.custom) }

// Add appends a custom colour. Colours already present are ignored.
func (p *Palette) Add(hex string) error {
	c, err := ParseHexColor(hex)
	if err != nil {
		return err
	}
	hex = HexColor(c)
	if slices.Contains(PresetColors, hex) || slices.Contains(p.custom, hex) {
		return nil
	}
	p.custom = append(p.custom, hex)
	return nil
}

// Remove deletes a custom colour. Presets stay.
func (p *Palette) Remove(hex string) bool {
	if c, err := ParseHexColor(hex); err == nil {
		hex = HexColor(c)
	}
	i := slices.Index(p.custom, hex)
	if i < 0 {
		return false
	}
	p.custom = slices.Delete(p.custom, i, i+1)
	return true
}
