package imaging

import (
	"math"
)

const deg2Rad = math.Pi / 180

// CanvasSize returns the size of the axis-aligned box that holds a
// width x height rectangle rotated by radians.
//
//	newWidth  = floor(|width*cos| + |height*sin|)
//	newHeight = floor(|height*cos| + |width*sin|)
//
// The sums are truncated, not rounded, so at some angles the canvas is up to
// one pixel narrower than the exact extent.
func CanvasSize(width, height int, radians float64) (newWidth, newHeight int) {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	w := float64(width)
	h := float64(height)
	newWidth = int(math.Abs(w*cos) + math.Abs(h*sin))
	newHeight = int(math.Abs(h*cos) + math.Abs(w*sin))
	return newWidth, newHeight
}

// Mapper maps destination canvas pixels back into source coordinates.
//
// The mapping rotates the offset from the destination centre by -theta and
// re-centres it on the source centre. Both centres use truncating integer
// division, so a canvas with an even side and a source with an odd side (or
// the reverse) are aligned with a half-pixel bias.
type Mapper struct {
	cos, sin     float64
	srcCX, srcCY int
	dstCX, dstCY int
}

// NewMapper prepares a Mapper for a srcW x srcH source drawn onto a
// dstW x dstH canvas at the given rotation.
func NewMapper(srcW, srcH, dstW, dstH int, radians float64) Mapper {
	return Mapper{
		cos:   math.Cos(radians),
		sin:   math.Sin(radians),
		srcCX: srcW / 2,
		srcCY: srcH / 2,
		dstCX: dstW / 2,
		dstCY: dstH / 2,
	}
}

// Map returns the fractional source coordinate that lands on destination
// pixel (x, y).
func (m Mapper) Map(x, y int) (ox, oy float64) {
	dx := float64(x - m.dstCX)
	dy := float64(y - m.dstCY)
	ox = dx*m.cos + dy*m.sin + float64(m.srcCX)
	oy = -dx*m.sin + dy*m.cos + float64(m.srcCY)
	return ox, oy
}
