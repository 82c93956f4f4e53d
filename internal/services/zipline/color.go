package zipline

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB color, used for tags.
type Color uint32

// DefaultColor is white.
const DefaultColor Color = 0xFFFFFF

var (
	rgbPattern = regexp.MustCompile(`^(?:rgb\()?\s*(\d{1,3})\s*[,\s]\s*(\d{1,3})\s*[,\s]\s*(\d{1,3})\s*\)?$`)
	hsvPattern = regexp.MustCompile(`^hsv\(\s*(\d{1,3}(?:\.\d+)?)\s*[,\s]\s*(\d{1,3}(?:\.\d+)?)\s*[,\s]\s*(\d{1,3}(?:\.\d+)?)\s*\)$`)
	hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)
)

// ColorFromRGB builds a Color from 8-bit channels.
func ColorFromRGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ColorFromHSV builds a Color from hue, saturation and value, each in [0, 1].
func ColorFromHSV(h, s, v float64) Color {
	r, g, b := hsvToRGB(h, s, v)
	return ColorFromRGB(uint8(r*255), uint8(g*255), uint8(b*255))
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	if s == 0 {
		return v, v, v
	}
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// ParseColor accepts "r, g, b" or "rgb(r, g, b)", "hsv(h, s, v)" and hex
// strings of 3 or 6 digits with or without a leading '#'.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)

	if m := hexPattern.FindStringSubmatch(s); m != nil {
		digits := m[1]
		if len(digits) == 3 {
			digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return Color(v), nil
	}

	if m := rgbPattern.FindStringSubmatch(strings.ToLower(s)); m != nil {
		var channels [3]uint8
		for i, raw := range m[1:] {
			n, err := strconv.Atoi(raw)
			if err != nil || n > 255 {
				return 0, fmt.Errorf("invalid rgb color %q: channel %q out of range", s, raw)
			}
			channels[i] = uint8(n)
		}
		return ColorFromRGB(channels[0], channels[1], channels[2]), nil
	}

	if m := hsvPattern.FindStringSubmatch(strings.ToLower(s)); m != nil {
		var parts [3]float64
		for i, raw := range m[1:] {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || f > 1 {
				return 0, fmt.Errorf("invalid hsv color %q: component %q must be within [0, 1]", s, raw)
			}
			parts[i] = f
		}
		return ColorFromHSV(parts[0], parts[1], parts[2]), nil
	}

	return 0, fmt.Errorf("invalid color %q", s)
}

func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// RGB returns the three channels.
func (c Color) RGB() (r, g, b uint8) {
	return c.R(), c.G(), c.B()
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalJSON encodes the color as its hex string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON accepts any format ParseColor understands.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = DefaultColor
		return nil
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
