package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"log/slog"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 75

// ResultMimeType is the content type of every encoded rotation result.
const ResultMimeType = "image/jpeg"

// DecodeOptions controls how input bytes become a Raster.
type DecodeOptions struct {
	// AutoOrient applies the EXIF orientation tag of JPEG input before the
	// image is converted. Off by default.
	AutoOrient bool

	// MaxPixels rejects sources whose declared width*height exceeds it,
	// before any pixel memory is allocated. Zero disables the check.
	MaxPixels int64
}

// SourceInfo describes a decoded input image.
type SourceInfo struct {
	// Format is the registered format name: "jpeg", "png", "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// Width is the decoded width in pixels, after any auto-orientation.
	Width int `json:"width"`

	// Height is the decoded height in pixels, after any auto-orientation.
	Height int `json:"height"`

	// HasAlpha reports whether the input had any pixel that was not fully
	// opaque. The alpha itself is always dropped.
	HasAlpha bool `json:"has_alpha"`
}

// Decode interprets data as an image and converts it to a Raster.
//
// Returns:
//   - *Raster: The decoded pixels with alpha discarded.
//   - *SourceInfo: Format and size of the input.
//   - error: A *DecodeError if the bytes are not a supported image,
//     ErrImageTooLarge if the declared size exceeds opts.MaxPixels, or
//     ErrInvalidGeometry if the image is empty.
func Decode(data []byte, opts DecodeOptions) (*Raster, *SourceInfo, error) {
	if len(data) == 0 {
		return nil, nil, &DecodeError{Err: errors.New("empty input")}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &DecodeError{Err: err}
	}
	if err := checkPixels(cfg, opts.MaxPixels); err != nil {
		return nil, nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(opts.AutoOrient))
	if err != nil {
		return nil, nil, &DecodeError{Format: format, Err: err}
	}

	r, err := FromImage(img)
	if err != nil {
		return nil, nil, err
	}

	info := &SourceInfo{
		Format:   format,
		Width:    r.Width,
		Height:   r.Height,
		HasAlpha: hasAlpha(img),
	}
	logger().Debug("decoded image",
		slog.String("format", info.Format),
		slog.Int("width", info.Width),
		slog.Int("height", info.Height),
		slog.Bool("has_alpha", info.HasAlpha),
	)
	return r, info, nil
}

// DecodeReader reads r to the end and calls Decode.
func DecodeReader(r io.Reader, opts DecodeOptions) (*Raster, *SourceInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	return Decode(data, opts)
}

// Open decodes the image file at path.
func Open(path string, opts DecodeOptions) (*Raster, error) {
	if opts.MaxPixels > 0 {
		f, err := os.Open(path)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		if err := checkPixels(cfg, opts.MaxPixels); err != nil {
			return nil, err
		}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(opts.AutoOrient))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return FromImage(img)
}

// EncodeJPEG writes r to w as baseline JPEG.
//
// The output is always lossy 3-channel JPEG whatever the input format was.
// quality is clamped to 1..100; zero selects DefaultJPEGQuality.
func EncodeJPEG(w io.Writer, r *Raster, quality int) error {
	if err := imgio.JPEGEncoder(jpegQuality(quality))(w, r.ToNRGBA()); err != nil {
		return fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return nil
}

// EncodeJPEGBytes is EncodeJPEG into a new byte slice.
func EncodeJPEGBytes(r *Raster, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, r, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveJPEG writes r to the file at path as JPEG, replacing any existing file.
func SaveJPEG(path string, r *Raster, quality int) error {
	if err := imgio.Save(path, r.ToNRGBA(), imgio.JPEGEncoder(jpegQuality(quality))); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// checkPixels rejects a declared size over maxPixels. Negative sides are
// left to the decoder.
func checkPixels(cfg image.Config, maxPixels int64) error {
	if maxPixels <= 0 || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

func jpegQuality(q int) int {
	switch {
	case q == 0:
		return DefaultJPEGQuality
	case q < 1:
		return 1
	case q > 100:
		return 100
	}
	return q
}

// hasAlpha reports whether any pixel of img is not fully opaque.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}
