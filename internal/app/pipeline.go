package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/gesture"
	"github.com/ayusman/hastaview/internal/logger"
	"github.com/ayusman/hastaview/internal/render"
	"github.com/ayusman/hastaview/internal/transform"
)

// Run processes camera frames until the stream ends, a quit key is pressed
// or ctx is cancelled. Each iteration:
//  1. read a frame; any read failure ends the stream
//  2. estimate hand landmarks, unless the motion gate reuses the last ones
//  3. step the gesture interpreter
//  4. compose the view matrix, warp the image and show it
//  5. publish a snapshot and poll the keyboard
//
// Run releases every resource the App owns before returning. It must only be
// called once.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		a.release(ctx)
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.release(ctx)

	a.startSession(ctx)
	defer a.finishSession(ctx)

	a.log.Info(ctx, "viewer started",
		logger.String("image", a.config.ImagePath),
		logger.String("source", string(a.config.Source)),
		logger.Int("width", a.size.X),
		logger.Int("height", a.size.Y),
	)

	for {
		select {
		case <-ctx.Done():
			a.log.Info(ctx, "viewer cancelled", logger.Int("frames", a.frames))
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			a.log.Info(ctx, "camera stream ended", logger.Int("frames", a.frames), logger.Error(err))
			return nil
		}

		stop := a.processFrame(ctx, frame)
		frame.Close()
		if stop {
			return nil
		}
	}
}

// processFrame runs one iteration on frame and reports whether the loop
// should stop.
func (a *App) processFrame(ctx context.Context, frame *gocv.Mat) bool {
	start := time.Now()

	hands, ok := a.landmarks(ctx, frame)
	if !ok {
		a.log.Info(ctx, "replay finished", logger.Int("frames", a.frames))
		return true
	}
	a.lastHands = hands
	a.frames++

	mode := a.interp.Step(a.state, hands)
	if mode != a.mode {
		a.recordTransition(ctx, a.mode, mode)
		a.mode = mode
	}

	snap := a.snapshot()

	warped := a.renderer.Warp(a.image, snap.Matrix)
	a.renderer.Show(ViewerWindow, warped)
	warped.Close()

	if a.config.ShowCamera {
		render.DrawHands(frame, hands)
		render.Annotate(frame, mode.String())
		a.renderer.Show(CameraWindow, *frame)
	}

	a.publish(snap)

	if a.metrics != nil {
		a.metrics.ObserveFrame(mode.String(), time.Since(start))
		a.metrics.SetView(snap.View.Scale, snap.View.Angle)
	}

	key := a.renderer.PollKey()
	switch {
	case render.IsQuit(key):
		a.log.Info(ctx, "quit requested", logger.Int("frames", a.frames))
		return true
	case render.IsReset(key):
		a.reset(ctx)
	}
	return false
}

// landmarks returns the hands for frame. It returns false once a replay
// script is exhausted. Estimation errors yield an empty frame.
func (a *App) landmarks(ctx context.Context, frame *gocv.Mat) (detector.Frame, bool) {
	if a.gate != nil && !a.gate.Open(frame) {
		if a.metrics != nil {
			a.metrics.RecordSkippedFrame()
		}
		return a.lastHands, true
	}

	hands, err := a.detector.Detect(frame)
	switch {
	case errors.Is(err, detector.ErrScriptExhausted):
		return detector.Frame{}, false
	case err != nil:
		a.log.Warn(ctx, "hand detection failed", logger.Int("frame", a.frames+1), logger.Error(err))
		if a.metrics != nil {
			a.metrics.RecordDetectError()
		}
		return detector.Frame{Width: frame.Cols(), Height: frame.Rows()}, true
	}
	return hands, true
}

// reset returns the view to its initial state.
func (a *App) reset(ctx context.Context) {
	a.state = gesture.NewState(transform.Center(a.size))
	a.publish(a.snapshot())
	a.log.Info(ctx, "view reset", logger.Int("frame", a.frames))
}

// release closes everything the App owns.
func (a *App) release(ctx context.Context) {
	a.closeSubscribers()

	if err := a.camera.Close(); err != nil {
		a.log.Warn(ctx, "closing camera", logger.Error(err))
	}
	if err := a.detector.Close(); err != nil {
		a.log.Warn(ctx, "closing detector", logger.Error(err))
	}
	if err := a.renderer.Close(); err != nil {
		a.log.Warn(ctx, "closing renderer", logger.Error(err))
	}
	if a.gate != nil {
		a.gate.Close()
	}
	a.image.Close()
}
