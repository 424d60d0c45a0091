package imaging

import (
	"fmt"
	"image/color"
)

// RGBColor represents an opaque RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
//
// There is no alpha component. Transparency in a decoded source is dropped
// when it is converted to a Raster.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// White is the default background for pixels with no source coverage.
var White = RGBColor{R: 255, G: 255, B: 255}

// Black is fully dark RGB.
var Black = RGBColor{}

// Hex returns the color as "#RRGGBB".
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA implements color.Color. The result is always fully opaque.
func (c RGBColor) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}
