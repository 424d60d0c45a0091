package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// bytesPerPixel is the size of one packed RGB pixel in Raster.Pix.
const bytesPerPixel = 3

// Raster is an opaque 8-bit RGB pixel buffer.
//
// Pixels live in a single contiguous slice, three bytes per pixel in R, G, B
// order. The pixel at (x, y) starts at Pix[3*(y*Width+x)]. Coordinates are
// 0-based with the origin at the top-left corner.
//
// Raster implements image.Image so it can be handed directly to any standard
// or third-party encoder. At always reports a fully opaque color.
type Raster struct {
	// Width is the raster width in pixels.
	Width int

	// Height is the raster height in pixels.
	Height int

	// Pix holds Width*Height packed RGB triplets.
	Pix []uint8
}

// NewRaster allocates a black raster of the given size.
//
// Both dimensions must be positive; otherwise ErrInvalidGeometry is returned.
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, width, height)
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*bytesPerPixel),
	}, nil
}

// NewRasterFilled allocates a raster and sets every pixel to c.
func NewRasterFilled(width, height int, c RGBColor) (*Raster, error) {
	r, err := NewRaster(width, height)
	if err != nil {
		return nil, err
	}
	r.Fill(c)
	return r, nil
}

// offset returns the index of the first byte of pixel (x, y).
func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * bytesPerPixel
}

// RGBAt returns the color of pixel (x, y). The coordinates must be in range.
func (r *Raster) RGBAt(x, y int) RGBColor {
	i := r.offset(x, y)
	p := r.Pix[i : i+bytesPerPixel : i+bytesPerPixel]
	return RGBColor{R: p[0], G: p[1], B: p[2]}
}

// SetRGB sets pixel (x, y) to c. The coordinates must be in range.
func (r *Raster) SetRGB(x, y int, c RGBColor) {
	i := r.offset(x, y)
	p := r.Pix[i : i+bytesPerPixel : i+bytesPerPixel]
	p[0], p[1], p[2] = c.R, c.G, c.B
}

// Fill sets every pixel to c.
func (r *Raster) Fill(c RGBColor) {
	for i := 0; i < len(r.Pix); i += bytesPerPixel {
		r.Pix[i] = c.R
		r.Pix[i+1] = c.G
		r.Pix[i+2] = c.B
	}
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (r *Raster) Bounds() image.Rectangle { return image.Rect(0, 0, r.Width, r.Height) }

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return color.RGBA{}
	}
	c := r.RGBAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// ToNRGBA copies the raster into a new opaque *image.NRGBA.
func (r *Raster) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(r.Bounds())
	j := 0
	for i := 0; i < len(r.Pix); i += bytesPerPixel {
		dst.Pix[j] = r.Pix[i]
		dst.Pix[j+1] = r.Pix[i+1]
		dst.Pix[j+2] = r.Pix[i+2]
		dst.Pix[j+3] = 0xff
		j += 4
	}
	return dst
}

// FromImage converts a decoded image into a Raster.
//
// The source is first normalised to non-premultiplied NRGBA, then only the
// R, G and B channels are kept. Any alpha information is discarded, so a
// half-transparent red pixel becomes opaque red.
//
// # Errors
//
//   - ErrInvalidGeometry if img is nil or has an empty bounds rectangle
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidGeometry)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, bounds.Dx(), bounds.Dy())
	}

	nrgba := imaging.Clone(img)
	dst, err := NewRaster(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := 0; y < dst.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+dst.Width*4]
		out := dst.Pix[y*dst.Width*bytesPerPixel : (y+1)*dst.Width*bytesPerPixel]
		for x, j := 0, 0; x < dst.Width; x++ {
			out[j] = row[x*4]
			out[j+1] = row[x*4+1]
			out[j+2] = row[x*4+2]
			j += bytesPerPixel
		}
	}
	return dst, nil
}
