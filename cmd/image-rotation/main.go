package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/image-rotation/internal/config"
	"github.com/ironsheep/image-rotation/internal/imaging"
	"github.com/ironsheep/image-rotation/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-rotation %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-rotation - HTTP service that rotates images by an arbitrary angle")
			fmt.Println()
			fmt.Println("Usage: image-rotation [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_ROTATION_ADDR=:8080              Listen address")
			fmt.Println("  IMAGE_ROTATION_LOG_LEVEL=info          debug, info, warn or error")
			fmt.Println("  IMAGE_ROTATION_JPEG_QUALITY=75         JPEG quality of responses, 1..100")
			fmt.Println("  IMAGE_ROTATION_MAX_UPLOAD_BYTES=33554432  Request body limit")
			fmt.Println("  IMAGE_ROTATION_MAX_PIXELS=50000000     Declared width*height limit, 0 = none")
			fmt.Println("  IMAGE_ROTATION_WORKERS=0               Goroutines per rotation, 0 = all CPUs")
			fmt.Println("  IMAGE_ROTATION_BACKGROUND=#FFFFFF      Fill color outside the source")
			fmt.Println("  IMAGE_ROTATION_AUTO_ORIENT=false       Apply EXIF orientation before rotating")
			fmt.Println("  IMAGE_ROTATION_SAMPLER=strict          strict or clamped edge sampling")
			fmt.Println("  IMAGE_ROTATION_SHUTDOWN_TIMEOUT=10s    Graceful shutdown limit")
			fmt.Println()
			fmt.Println("Endpoint: POST /api/image/rotate?angle=<degrees> with multipart field \"file\".")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-rotation: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	imaging.SetLogger(logger.With("component", "imaging"))
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
