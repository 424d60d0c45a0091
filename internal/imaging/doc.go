// Package imaging implements the image rotation engine and its codec helpers.
//
// The engine takes a decoded RGB raster and an angle in degrees, sizes a new
// canvas to the rotated bounding box, maps every canvas pixel back to a
// fractional source coordinate, and resamples the source with bilinear
// interpolation. Canvas pixels without source coverage get a background
// color, opaque white unless overridden.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Angles are in degrees and converted once to radians. They are never
// normalised, so -30, 330 and 690 all give the same geometry up to
// floating-point error.
//
// # Pipeline
//
//  1. CanvasSize: truncated bounding box of the rotated source
//  2. Mapper: inverse rotation of a canvas pixel into source space
//  3. Sample: four-neighbour bilinear blend, or "no coverage"
//  4. Rotate: background fill, then a parallel pass over canvas rows
//
// # Truncation
//
// Output is pinned pixel for pixel by three integer truncations:
//   - canvas sides are floor(...), not rounded
//   - image centres are width/2 and height/2 in integer arithmetic
//   - the strict sampler rejects o >= dim-1, so the last source row and
//     column never anchor an interpolation
//
// Rotating by 0 degrees therefore returns a same-size canvas whose last row
// and column are background. SamplerClamped lifts the third restriction.
//
// # Thread Safety
//
// Rotate never mutates its source and allocates a new canvas per call, so
// concurrent calls are safe, including calls sharing one source raster.
//
// # Codecs
//
// Decode accepts JPEG, PNG, GIF, BMP, TIFF and WebP. Results are always
// encoded as JPEG; any alpha or lossless fidelity of the input is lost.
package imaging
