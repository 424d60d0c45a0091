package server

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ironsheep/image-rotation/internal/imaging"
)

const (
	// FieldFile is the multipart field carrying the source image.
	FieldFile = "file"

	// ParamAngle is the rotation angle in degrees, read from the query
	// string or, failing that, from the form.
	ParamAngle = "angle"

	// ContentDisposition is sent with every rotated image.
	ContentDisposition = `form-data; name="attachment"; filename="rotated_output.jpg"`

	// Headers carrying the canvas size of the response.
	HeaderRotatedWidth  = "X-Rotated-Width"
	HeaderRotatedHeight = "X-Rotated-Height"

	// multipartMemory is how much of a form is kept in memory before
	// spilling file parts to disk.
	multipartMemory = 8 << 20
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	// Code mirrors the HTTP status code.
	Code int `json:"code"`

	// Message is a short human-readable description.
	Message string `json:"message"`

	// Data carries the underlying error text, if any.
	Data string `json:"data,omitempty"`
}

// errMissingAngle and errMissingFile are client errors detected before decoding.
var (
	errMissingAngle = errors.New("missing angle parameter")
	errMissingFile  = errors.New("missing file part")
)

// handleRotate decodes the uploaded image, rotates it and answers with JPEG.
//
// The pipeline is:
//  1. Cap the body at MaxUploadBytes and parse the multipart form
//  2. Read the angle and the file part
//  3. Decode, rotate and encode
//  4. Write the JPEG with its disposition and size headers
//
// Every failure is answered with an ErrorResponse; see statusFor.
func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.MaxUploadBytes
	if limit > 0 {
		if r.ContentLength > limit {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid multipart request", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	angle, err := parseAngle(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid angle", err)
		return
	}

	file, header, err := r.FormFile(FieldFile)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing image file", errMissingFile)
		return
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read image file", err)
		return
	}

	src, info, err := imaging.Decode(data, imaging.DecodeOptions{
		AutoOrient: s.cfg.AutoOrient,
		MaxPixels:  s.cfg.MaxPixels,
	})
	if errors.Is(err, imaging.ErrImageTooLarge) {
		s.writeError(w, statusFor(err), "image too large", err)
		return
	}
	if err != nil {
		s.writeError(w, statusFor(err), "failed to decode image", err)
		return
	}

	rotated, err := imaging.Rotate(src, angle,
		imaging.WithBackground(s.cfg.Background),
		imaging.WithWorkers(s.cfg.Workers),
		imaging.WithSampler(s.cfg.Sampler),
	)
	if err != nil {
		s.writeError(w, statusFor(err), "failed to rotate image", err)
		return
	}

	body, err := imaging.EncodeJPEGBytes(rotated, s.cfg.JPEGQuality)
	if err != nil {
		s.writeError(w, statusFor(err), "failed to encode image", err)
		return
	}

	s.logger.Debug("rotated upload",
		"filename", header.Filename,
		"format", info.Format,
		"src", strconv.Itoa(info.Width)+"x"+strconv.Itoa(info.Height),
		"dst", strconv.Itoa(rotated.Width)+"x"+strconv.Itoa(rotated.Height),
		"angle", angle,
	)

	h := w.Header()
	h.Set("Content-Type", imaging.ResultMimeType)
	h.Set("Content-Disposition", ContentDisposition)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set(HeaderRotatedWidth, strconv.Itoa(rotated.Width))
	h.Set(HeaderRotatedHeight, strconv.Itoa(rotated.Height))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// parseAngle reads the angle from the query string, then from the form body.
// NaN and infinities parse as floats and are rejected with ErrInvalidAngle.
func parseAngle(r *http.Request) (float64, error) {
	v := r.URL.Query().Get(ParamAngle)
	if v == "" {
		v = r.PostFormValue(ParamAngle)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, errMissingAngle
	}
	angle, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0, imaging.ErrInvalidAngle
	}
	return angle, nil
}

// statusFor maps engine and codec errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, imaging.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case imaging.IsDecodeError(err),
		errors.Is(err, imaging.ErrInvalidGeometry),
		errors.Is(err, imaging.ErrInvalidAngle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Code: status, Message: message}
	if err != nil {
		resp.Data = err.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(message, "status", status, "error", err)
	} else {
		s.logger.Debug(message, "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
