// Package config loads the rotation server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-rotation/internal/imaging"
)

// Environment variable names.
const (
	EnvAddr            = "IMAGE_ROTATION_ADDR"
	EnvLogLevel        = "IMAGE_ROTATION_LOG_LEVEL"
	EnvJPEGQuality     = "IMAGE_ROTATION_JPEG_QUALITY"
	EnvMaxUploadBytes  = "IMAGE_ROTATION_MAX_UPLOAD_BYTES"
	EnvMaxPixels       = "IMAGE_ROTATION_MAX_PIXELS"
	EnvWorkers         = "IMAGE_ROTATION_WORKERS"
	EnvBackground      = "IMAGE_ROTATION_BACKGROUND"
	EnvAutoOrient      = "IMAGE_ROTATION_AUTO_ORIENT"
	EnvShutdownTimeout = "IMAGE_ROTATION_SHUTDOWN_TIMEOUT"
	EnvSampler         = "IMAGE_ROTATION_SAMPLER"
)

// Config holds the server settings.
type Config struct {
	// Addr is the TCP listen address.
	Addr string

	// LogLevel is the minimum level written to stderr.
	LogLevel slog.Level

	// JPEGQuality is the quality of encoded responses, 1..100.
	JPEGQuality int

	// MaxUploadBytes caps the size of a rotate request body.
	MaxUploadBytes int64

	// MaxPixels caps the declared width*height of an upload; 0 disables it.
	MaxPixels int64

	// Workers is the goroutine count per rotation; 0 means GOMAXPROCS.
	Workers int

	// Background fills canvas pixels without source coverage.
	Background imaging.RGBColor

	// AutoOrient applies EXIF orientation before rotating.
	AutoOrient bool

	// Sampler selects the strict or edge-clamped sampling region.
	Sampler imaging.SamplerMode

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        slog.LevelInfo,
		JPEGQuality:     imaging.DefaultJPEGQuality,
		MaxUploadBytes:  32 << 20,
		MaxPixels:       50_000_000,
		Workers:         0,
		Background:      imaging.White,
		AutoOrient:      false,
		Sampler:         imaging.SamplerStrict,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. Unset or empty variables
// keep their default; malformed ones are an error naming the variable.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}

	if v := getenv(EnvLogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v := getenv(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return Config{}, fmt.Errorf("%s: want an integer in 1..100, got %q", EnvJPEGQuality, v)
		}
		cfg.JPEGQuality = q
	}

	if v := getenv(EnvMaxUploadBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s: want a positive integer, got %q", EnvMaxUploadBytes, v)
		}
		cfg.MaxUploadBytes = n
	}

	if v := getenv(EnvMaxPixels); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: want a non-negative integer, got %q", EnvMaxPixels, v)
		}
		cfg.MaxPixels = n
	}

	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: want a non-negative integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}

	if v := getenv(EnvBackground); v != "" {
		c, err := ParseColor(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvBackground, err)
		}
		cfg.Background = c
	}

	if v := getenv(EnvAutoOrient); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: want a boolean, got %q", EnvAutoOrient, v)
		}
		cfg.AutoOrient = b
	}

	if v := getenv(EnvSampler); v != "" {
		m, err := imaging.ParseSamplerMode(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSampler, err)
		}
		cfg.Sampler = m
	}

	if v := getenv(EnvShutdownTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("%s: want a duration such as 10s, got %q", EnvShutdownTimeout, v)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

// ParseLevel accepts debug, info, warn or error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// ParseColor parses a hex color such as "#FFFFFF". The leading "#" is optional.
func ParseColor(s string) (imaging.RGBColor, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return imaging.RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return imaging.RGBColor{R: r, G: g, B: b}, nil
}
