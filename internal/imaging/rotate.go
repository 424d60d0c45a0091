package imaging

import (
	"fmt"
	"image"
	"log/slog"
	"math"
)

type rotateOptions struct {
	background RGBColor
	workers    int
	sampler    SamplerMode
}

// RotateOption sets an optional parameter for Rotate.
type RotateOption func(*rotateOptions)

// WithBackground sets the color of canvas pixels that have no source
// coverage. The default is opaque white.
func WithBackground(c RGBColor) RotateOption {
	return func(o *rotateOptions) {
		o.background = c
	}
}

// WithWorkers sets how many goroutines share the canvas rows.
// n <= 0 means GOMAXPROCS, 1 runs on the calling goroutine.
// The output does not depend on n.
func WithWorkers(n int) RotateOption {
	return func(o *rotateOptions) {
		o.workers = n
	}
}

// WithSampler selects the sampling region. The default is SamplerStrict.
func WithSampler(m SamplerMode) RotateOption {
	return func(o *rotateOptions) {
		o.sampler = m
	}
}

// Rotate returns a new raster holding src rotated by angleDegrees.
//
// Parameters:
//   - src: The source raster. It is only read.
//   - angleDegrees: Rotation in degrees. Any finite value is accepted as is;
//     negative values and values past 360 go straight into sin and cos.
//   - opts: Optional background color, worker count and sampler mode.
//
// Returns:
//   - *Raster: A freshly allocated canvas sized by CanvasSize. The caller owns it.
//   - error: Non-nil for a degenerate source or a non-finite angle.
//
// # Algorithm
//
// The canvas is filled with the background color. Then for every canvas
// pixel the Mapper finds the fractional source coordinate, and the sampler
// either blends the four neighbouring source pixels or reports no coverage,
// in which case the background stays. Each canvas pixel depends only on the
// source and its own coordinates, so rows are split across goroutines with
// no synchronisation beyond the final wait.
//
// # Errors
//
//   - ErrInvalidGeometry if src is nil, has a non-positive side, or the
//     computed canvas would have a non-positive side
//   - ErrInvalidAngle if angleDegrees is NaN or infinite
func Rotate(src *Raster, angleDegrees float64, opts ...RotateOption) (*Raster, error) {
	o := rotateOptions{background: White}
	for _, opt := range opts {
		opt(&o)
	}

	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidGeometry)
	}
	if len(src.Pix) < src.Width*src.Height*bytesPerPixel {
		return nil, fmt.Errorf("%w: pixel buffer too short for %dx%d", ErrInvalidGeometry, src.Width, src.Height)
	}
	if math.IsNaN(angleDegrees) || math.IsInf(angleDegrees, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAngle, angleDegrees)
	}

	radians := angleDegrees * deg2Rad
	newWidth, newHeight := CanvasSize(src.Width, src.Height, radians)
	dst, err := NewRasterFilled(newWidth, newHeight, o.background)
	if err != nil {
		return nil, err
	}

	sample := Sample
	if o.sampler == SamplerClamped {
		sample = SampleClamped
	}
	m := NewMapper(src.Width, src.Height, newWidth, newHeight, radians)

	parallelRows(newHeight, o.workers, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < newWidth; x++ {
				ox, oy := m.Map(x, y)
				if c, ok := sample(src, ox, oy); ok {
					dst.SetRGB(x, y, c)
				}
			}
		}
	})

	logger().Debug("rotated raster",
		slog.Float64("angle", angleDegrees),
		slog.Int("src_width", src.Width),
		slog.Int("src_height", src.Height),
		slog.Int("dst_width", newWidth),
		slog.Int("dst_height", newHeight),
		slog.String("sampler", o.sampler.String()),
		slog.Int("workers", o.workers),
	)

	return dst, nil
}

// RotateImage converts img with FromImage and rotates it.
func RotateImage(img image.Image, angleDegrees float64, opts ...RotateOption) (*Raster, error) {
	src, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	return Rotate(src, angleDegrees, opts...)
}
