package imaging

import (
	"fmt"
	"strings"
)

// SamplerMode selects how fractional source coordinates are resolved.
type SamplerMode int

const (
	// SamplerStrict accepts only 0 <= o < dim-1 on both axes, so the last
	// source row and column are never an interpolation anchor. This is the
	// default.
	SamplerStrict SamplerMode = iota

	// SamplerClamped accepts 0 <= o < dim and clamps the right and bottom
	// neighbours to the last row and column.
	SamplerClamped
)

func (m SamplerMode) String() string {
	switch m {
	case SamplerStrict:
		return "strict"
	case SamplerClamped:
		return "clamped"
	default:
		return "unknown"
	}
}

// ParseSamplerMode accepts "strict" or "clamped".
func ParseSamplerMode(s string) (SamplerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return SamplerStrict, nil
	case "clamped":
		return SamplerClamped, nil
	}
	return SamplerStrict, fmt.Errorf("unknown sampler %q", s)
}

// Sample bilinearly interpolates src at (ox, oy).
//
// The second result is false when the coordinate is outside the strict
// sampling region [0, Width-1) x [0, Height-1); the caller then uses its
// background color. Out-of-range input is an expected outcome, not an error.
//
// # Algorithm
//
// With x1 = floor(ox), y1 = floor(oy), dx = ox-x1 and dy = oy-y1, the four
// neighbours (x1,y1), (x1+1,y1), (x1,y1+1), (x1+1,y1+1) are weighted by
// (1-dx)(1-dy), dx(1-dy), (1-dx)dy and dx*dy. Each channel is blended
// independently and truncated toward zero.
func Sample(src *Raster, ox, oy float64) (RGBColor, bool) {
	if !(ox >= 0 && ox < float64(src.Width-1) && oy >= 0 && oy < float64(src.Height-1)) {
		return RGBColor{}, false
	}
	x1 := int(ox)
	y1 := int(oy)
	return blend(src, ox, oy, x1, y1, x1+1, y1+1), true
}

// SampleClamped is Sample with a widened region [0, Width) x [0, Height).
// Neighbours past the last row or column reuse that row or column.
func SampleClamped(src *Raster, ox, oy float64) (RGBColor, bool) {
	if !(ox >= 0 && ox < float64(src.Width) && oy >= 0 && oy < float64(src.Height)) {
		return RGBColor{}, false
	}
	x1 := int(ox)
	y1 := int(oy)
	x2 := min(x1+1, src.Width-1)
	y2 := min(y1+1, src.Height-1)
	return blend(src, ox, oy, x1, y1, x2, y2), true
}

func blend(src *Raster, ox, oy float64, x1, y1, x2, y2 int) RGBColor {
	c1 := src.RGBAt(x1, y1)
	c2 := src.RGBAt(x2, y1)
	c3 := src.RGBAt(x1, y2)
	c4 := src.RGBAt(x2, y2)

	dx := ox - float64(x1)
	dy := oy - float64(y1)
	w1 := (1 - dx) * (1 - dy)
	w2 := dx * (1 - dy)
	w3 := (1 - dx) * dy
	w4 := dx * dy

	return RGBColor{
		R: channel(c1.R, c2.R, c3.R, c4.R, w1, w2, w3, w4),
		G: channel(c1.G, c2.G, c3.G, c4.G, w1, w2, w3, w4),
		B: channel(c1.B, c2.B, c3.B, c4.B, w1, w2, w3, w4),
	}
}

func channel(a, b, c, d uint8, w1, w2, w3, w4 float64) uint8 {
	v := int(float64(a)*w1 + float64(b)*w2 + float64(c)*w3 + float64(d)*w4)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
