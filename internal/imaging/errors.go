package imaging

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when a source image or a computed canvas
// would have a zero or negative side.
var ErrInvalidGeometry = errors.New("invalid image geometry")

// ErrInvalidAngle is returned when the rotation angle is NaN or infinite.
var ErrInvalidAngle = errors.New("invalid rotation angle")

// ErrImageTooLarge is returned when a source declares more pixels than
// DecodeOptions.MaxPixels allows.
var ErrImageTooLarge = errors.New("image too large")

// DecodeError reports that input bytes could not be interpreted as an image.
//
// It wraps the underlying codec error, so errors.Is and errors.As see through it.
type DecodeError struct {
	// Format is the sniffed container format, or empty if it could not be detected.
	Format string

	// Err is the codec error.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("failed to decode %s image: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("failed to decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
