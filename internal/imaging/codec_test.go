package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// createPatternImage creates a quadrant pattern: red top-left, green
// top-right, blue bottom-left, white bottom-right.
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.NRGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.NRGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.NRGBA{0, 0, 255, 255}
			default:
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodeWith(t *testing.T, img image.Image, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_Formats(t *testing.T) {
	img := createPatternImage(8, 6)

	tests := []struct {
		format   string
		lossless bool
		encode   func(*bytes.Buffer, image.Image) error
	}{
		{"png", true, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }},
		{"bmp", true, func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }},
		{"tiff", true, func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) }},
		{"gif", false, func(b *bytes.Buffer, m image.Image) error { return gif.Encode(b, m, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data := encodeWith(t, img, tt.encode)

			r, info, err := Decode(data, DecodeOptions{})
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format: got %s, want %s", info.Format, tt.format)
			}
			if info.Width != 8 || info.Height != 6 || r.Width != 8 || r.Height != 6 {
				t.Errorf("dimensions: info %dx%d raster %dx%d, want 8x6", info.Width, info.Height, r.Width, r.Height)
			}
			if !tt.lossless {
				return
			}
			if got := r.RGBAt(0, 0); got != (RGBColor{R: 255}) {
				t.Errorf("top-left: got %v, want red", got)
			}
			if got := r.RGBAt(7, 5); got != White {
				t.Errorf("bottom-right: got %v, want white", got)
			}
		})
	}
}

func TestDecode_JPEGRoundTrip(t *testing.T) {
	src, _ := NewRasterFilled(16, 12, RGBColor{R: 128, G: 128, B: 128})

	data, err := EncodeJPEGBytes(src, 90)
	if err != nil {
		t.Fatalf("EncodeJPEGBytes failed: %v", err)
	}

	r, info, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if info.Format != "jpeg" {
		t.Errorf("Format: got %s, want jpeg", info.Format)
	}
	if info.HasAlpha {
		t.Error("jpeg should not report alpha")
	}
	c := r.RGBAt(8, 6)
	if absDiff(c.R, 128) > 3 || absDiff(c.G, 128) > 3 || absDiff(c.B, 128) > 3 {
		t.Errorf("centre pixel drifted: got %v", c)
	}
}

func TestDecode_HasAlpha(t *testing.T) {
	opaque := createPatternImage(4, 4)
	translucent := createPatternImage(4, 4)
	translucent.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 100})

	_, info, err := Decode(encodeWith(t, opaque, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }), DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode opaque failed: %v", err)
	}
	if info.HasAlpha {
		t.Error("opaque png reported alpha")
	}

	r, info, err := Decode(encodeWith(t, translucent, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }), DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode translucent failed: %v", err)
	}
	if !info.HasAlpha {
		t.Error("translucent png did not report alpha")
	}
	if got := r.RGBAt(1, 1); got != (RGBColor{R: 10, G: 20, B: 30}) {
		t.Errorf("translucent pixel: got %v, want straight RGB", got)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("not an image")},
		{"truncated png", encodeWith(t, createPatternImage(4, 4), func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data, DecodeOptions{})
			if err == nil {
				t.Fatal("Decode should fail")
			}
			if !IsDecodeError(err) {
				t.Errorf("got %T (%v), want *DecodeError", err, err)
			}
		})
	}
}

// withOrientation splices an EXIF APP1 segment carrying the given
// orientation tag right after the JPEG SOI marker.
func withOrientation(jpegData []byte, orientation uint16) []byte {
	var tiffHdr bytes.Buffer
	tiffHdr.WriteString("MM")
	binary.Write(&tiffHdr, binary.BigEndian, uint16(42))
	binary.Write(&tiffHdr, binary.BigEndian, uint32(8))
	binary.Write(&tiffHdr, binary.BigEndian, uint16(1))      // one IFD entry
	binary.Write(&tiffHdr, binary.BigEndian, uint16(0x0112)) // Orientation
	binary.Write(&tiffHdr, binary.BigEndian, uint16(3))      // SHORT
	binary.Write(&tiffHdr, binary.BigEndian, uint32(1))
	binary.Write(&tiffHdr, binary.BigEndian, orientation)
	binary.Write(&tiffHdr, binary.BigEndian, uint16(0))
	binary.Write(&tiffHdr, binary.BigEndian, uint32(0)) // no next IFD

	payload := append([]byte("Exif\x00\x00"), tiffHdr.Bytes()...)

	var out bytes.Buffer
	out.Write(jpegData[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(jpegData[2:])
	return out.Bytes()
}

// pngHeader returns a PNG stream holding only a signature and an IHDR
// chunk declaring an 8-bit gray image of the given size.
func pngHeader(width, height uint32) []byte {
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	binary.Write(&ihdr, binary.BigEndian, width)
	binary.Write(&ihdr, binary.BigEndian, height)
	ihdr.Write([]byte{8, 0, 0, 0, 0}) // depth 8, gray, no interlace

	var out bytes.Buffer
	out.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&out, binary.BigEndian, uint32(ihdr.Len()-4))
	out.Write(ihdr.Bytes())
	binary.Write(&out, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))
	return out.Bytes()
}

func TestDecode_MaxPixels(t *testing.T) {
	_, _, err := Decode(pngHeader(100000, 100000), DecodeOptions{MaxPixels: 1 << 20})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("huge declared size: got %v, want ErrImageTooLarge", err)
	}
	if IsDecodeError(err) {
		t.Error("size rejection should not be reported as a decode error")
	}

	data := encodeWith(t, createPatternImage(8, 6), func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })
	if _, _, err := Decode(data, DecodeOptions{MaxPixels: 47}); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("48 pixels over a cap of 47: got %v, want ErrImageTooLarge", err)
	}
	if _, _, err := Decode(data, DecodeOptions{MaxPixels: 48}); err != nil {
		t.Errorf("48 pixels at a cap of 48: got %v", err)
	}
	if _, _, err := Decode(data, DecodeOptions{}); err != nil {
		t.Errorf("no cap: got %v", err)
	}
}

func TestOpen_MaxPixels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, pngHeader(100000, 100000), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := Open(path, DecodeOptions{MaxPixels: 1 << 20}); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("got %v, want ErrImageTooLarge", err)
	}
}

func TestDecode_AutoOrient(t *testing.T) {
	src, _ := NewRasterFilled(8, 4, RGBColor{R: 60, G: 60, B: 60})
	data, err := EncodeJPEGBytes(src, 90)
	if err != nil {
		t.Fatalf("EncodeJPEGBytes failed: %v", err)
	}
	data = withOrientation(data, 6)

	r, _, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if r.Width != 8 || r.Height != 4 {
		t.Errorf("without auto-orient: got %dx%d, want 8x4", r.Width, r.Height)
	}

	r, info, err := Decode(data, DecodeOptions{AutoOrient: true})
	if err != nil {
		t.Fatalf("Decode with auto-orient failed: %v", err)
	}
	if r.Width != 4 || r.Height != 8 {
		t.Errorf("with auto-orient: got %dx%d, want 4x8", r.Width, r.Height)
	}
	if info.Width != 4 || info.Height != 8 {
		t.Errorf("info with auto-orient: got %dx%d, want 4x8", info.Width, info.Height)
	}
}

func TestEncodeJPEG_Signature(t *testing.T) {
	src, _ := NewRasterFilled(5, 5, White)
	data, err := EncodeJPEGBytes(src, 0)
	if err != nil {
		t.Fatalf("EncodeJPEGBytes failed: %v", err)
	}
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Errorf("output is not a JPEG stream: % x", data[:4])
	}
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultJPEGQuality},
		{-5, 1},
		{1, 1},
		{75, 75},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		if got := jpegQuality(tt.in); got != tt.want {
			t.Errorf("jpegQuality(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSaveJPEGAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotated.jpg")

	src, _ := NewRasterFilled(20, 10, RGBColor{R: 200, G: 200, B: 200})
	rotated, err := Rotate(src, 90)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if err := SaveJPEG(path, rotated, DefaultJPEGQuality); err != nil {
		t.Fatalf("SaveJPEG failed: %v", err)
	}

	loaded, err := Open(path, DecodeOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if loaded.Width != rotated.Width || loaded.Height != rotated.Height {
		t.Errorf("dimensions: got %dx%d, want %dx%d", loaded.Width, loaded.Height, rotated.Width, rotated.Height)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open("/nonexistent/path/to/image.png", DecodeOptions{}); !IsDecodeError(err) {
		t.Errorf("missing file: got %v, want *DecodeError", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	_, err := Open(bad, DecodeOptions{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("invalid file: got %v, want *DecodeError", err)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
