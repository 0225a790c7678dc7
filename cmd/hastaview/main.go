package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/ayusman/hastaview/internal/app"
	"github.com/ayusman/hastaview/internal/capture"
	"github.com/ayusman/hastaview/internal/config"
	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/logger"
	"github.com/ayusman/hastaview/internal/metrics"
	"github.com/ayusman/hastaview/internal/render"
	"github.com/ayusman/hastaview/internal/server"
	"github.com/ayusman/hastaview/internal/store"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	imagePath := flag.String("image", "", "image to view")
	replayPath := flag.String("replay", "", "replay recorded landmarks from a JSON script instead of the camera")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [image]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *imagePath == "" && flag.NArg() > 0 {
		*imagePath = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Named("main")

	cfg, err := config.Load(ctx, *configPath, config.WithImage(*imagePath), config.WithReplay(*replayPath))
	if err != nil {
		fatal(ctx, log, "loading configuration", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		fatal(ctx, log, "setting log level", err)
	}

	img, err := app.LoadImage(cfg.Image)
	if err != nil {
		fatal(ctx, log, "cannot open the image", err)
	}

	cam, det, source, err := openSource(ctx, cfg, log)
	if err != nil {
		img.Close()
		fatal(ctx, log, "opening landmark source", err)
	}

	m := metrics.New()
	opts := []app.Option{app.WithMetrics(m)}

	st := openStore(ctx, cfg.Store.Path, log)
	if st != nil {
		defer st.Close()
		opts = append(opts, app.WithStore(st))
	}

	if cfg.Motion.Enabled && source == store.SourceCamera {
		opts = append(opts, app.WithMotionGate(capture.NewMotionGate(cfg.Motion.Threshold, cfg.Motion.MaxSkip)))
	}

	viewer, err := app.New(app.Config{
		Params:     cfg.Gesture,
		ImagePath:  cfg.Image,
		Source:     source,
		ShowCamera: cfg.ShowCamera,
	}, img, cam, det, render.NewWindow(), opts...)
	if err != nil {
		fatal(ctx, log, "creating viewer", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if cfg.Server.Addr != "" {
		srv := server.New(server.Config{
			Viewer:        viewer,
			Store:         st,
			Metrics:       m,
			Interpolation: cfg.Server.Interpolation,
			JPEGQuality:   cfg.Server.JPEGQuality,
			StreamFPS:     cfg.Server.StreamFPS,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
				log.Error(ctx, "http server failed", logger.Error(err))
			}
		}()
	}

	// HighGUI needs the main thread, so the frame loop runs here.
	runErr := viewer.Run(ctx)
	cancel()
	wg.Wait()

	if runErr != nil {
		fatal(ctx, log, "viewer stopped", runErr)
	}
}

// openSource returns the camera and detector, or the replay pair when a
// script is configured. A missing MediaPipe service falls back to a detector
// that sees no hands, so the image can still be viewed.
func openSource(ctx context.Context, cfg *config.Config, log logger.Logger) (capture.Camera, detector.Detector, store.Source, error) {
	if cfg.Replay != "" {
		script, err := detector.LoadScript(cfg.Replay)
		if err != nil {
			return nil, nil, "", err
		}
		log.Info(ctx, "replaying landmarks",
			logger.String("script", cfg.Replay),
			logger.Int("frames", len(script.Frames)),
		)
		cam := capture.NewBlankCamera(script.Width, script.Height, 0)
		return cam, detector.NewScriptDetector(script), store.SourceReplay, nil
	}

	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(cfg.Detector); err == nil {
		det = mp
		log.Info(ctx, "using MediaPipe hand detection")
	} else {
		log.Warn(ctx, "MediaPipe not available, gestures disabled", logger.Error(err))
		det = detector.NewMockDetector()
	}

	return capture.NewCamera(cfg.Camera), det, store.SourceCamera, nil
}

// openStore opens session history at path. History is optional: failures are
// logged and nil is returned.
func openStore(ctx context.Context, path string, log logger.Logger) *store.Store {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn(ctx, "session history disabled", logger.Error(err))
		return nil
	}
	st, err := store.New(path)
	if err != nil {
		log.Warn(ctx, "session history disabled", logger.Error(err))
		return nil
	}
	return st
}

func fatal(ctx context.Context, log logger.Logger, msg string, err error) {
	log.Error(ctx, msg, logger.Error(err))
	os.Exit(1)
}
