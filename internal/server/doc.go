// Package server exposes the rotation engine over HTTP.
//
// # Endpoints
//
//   - POST /api/image/rotate: multipart field "file" holds the source image,
//     "angle" (query string or form field) the rotation in degrees.
//   - GET /health: answers "ok".
//
// A successful rotation answers 200 with a JPEG body, the Content-Disposition
// form-data; name="attachment"; filename="rotated_output.jpg" and the canvas
// size in X-Rotated-Width and X-Rotated-Height.
//
// # Error Handling
//
// Failures are answered with a JSON ErrorResponse:
//
//	{"code": 400, "message": "invalid angle", "data": "strconv.ParseFloat: ..."}
//
// Status codes:
//   - 400: missing or malformed angle, missing file, undecodable image,
//     degenerate image
//   - 413: request body larger than the configured limit, or an image
//     declaring more pixels than allowed
//   - 500: encoding and any other failure
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run returns after ctx is cancelled and in-flight requests have drained.
package server
