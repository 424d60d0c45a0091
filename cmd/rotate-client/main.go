package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ironsheep/image-rotation/internal/client"
	"github.com/ironsheep/image-rotation/internal/config"
	"github.com/ironsheep/image-rotation/internal/imaging"
)

func main() {
	var (
		serverURL  = flag.String("server", "http://localhost:8080/api/image", "Base URL of the rotation API")
		angle      = flag.Float64("angle", 45, "Rotation angle in degrees")
		in         = flag.String("in", "", "Input image path (required)")
		out        = flag.String("out", "rotated_output.jpg", "Output JPEG path")
		timeout    = flag.Duration("timeout", client.DefaultTimeout, "Request timeout")
		local      = flag.Bool("local", false, "Rotate in-process instead of calling the server")
		background = flag.String("background", "#FFFFFF", "Background color for -local")
		quality    = flag.Int("quality", imaging.DefaultJPEGQuality, "JPEG quality for -local")
		autoOrient = flag.Bool("auto-orient", false, "Apply EXIF orientation before rotating, for -local")
		sampler    = flag.String("sampler", "strict", "Edge sampling for -local: strict or clamped")
		verbose    = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: rotate-client -in <image> [-angle 45] [-out rotated_output.jpg] [-local]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	imaging.SetLogger(logger)

	var err error
	if *local {
		err = rotateLocal(localOptions{
			in:         *in,
			out:        *out,
			angle:      *angle,
			background: *background,
			quality:    *quality,
			autoOrient: *autoOrient,
			sampler:    *sampler,
		})
	} else {
		err = rotateRemote(logger, *serverURL, *in, *out, *angle, *timeout)
	}
	if err != nil {
		logger.Error("rotation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Image rotated successfully!", "out", *out)
}

func rotateRemote(logger *slog.Logger, serverURL, in, out string, angle float64, timeout time.Duration) error {
	c := client.New(serverURL, &http.Client{Timeout: timeout})
	c.Logger = logger

	data, err := c.RotateFile(context.Background(), in, angle)
	if err != nil {
		return err
	}
	return c.SaveImage(out, data)
}

type localOptions struct {
	in, out    string
	angle      float64
	background string
	quality    int
	autoOrient bool
	sampler    string
}

func rotateLocal(o localOptions) error {
	bg, err := config.ParseColor(o.background)
	if err != nil {
		return err
	}
	mode, err := imaging.ParseSamplerMode(o.sampler)
	if err != nil {
		return err
	}

	src, err := imaging.Open(o.in, imaging.DecodeOptions{AutoOrient: o.autoOrient})
	if err != nil {
		return err
	}
	rotated, err := imaging.Rotate(src, o.angle, imaging.WithBackground(bg), imaging.WithSampler(mode))
	if err != nil {
		return err
	}
	return imaging.SaveJPEG(o.out, rotated, o.quality)
}
