package app

import (
	"context"

	"github.com/ayusman/hastaview/internal/gesture"
	"github.com/ayusman/hastaview/internal/logger"
	"github.com/ayusman/hastaview/internal/store"
)

// startSession opens a history row. Store failures only disable history.
func (a *App) startSession(ctx context.Context) {
	if a.store == nil {
		return
	}

	sess := &store.Session{
		Image:  a.config.ImagePath,
		Source: a.config.Source,
	}
	if err := a.store.Sessions().Create(sess); err != nil {
		a.log.Warn(ctx, "session history disabled", logger.Error(err))
		return
	}

	a.mu.Lock()
	a.session = sess
	a.mu.Unlock()

	a.log.Debug(ctx, "session started", logger.String("session", sess.ID))
}

// recordTransition notes a change of gesture mode.
func (a *App) recordTransition(ctx context.Context, from, to gesture.Mode) {
	a.log.Debug(ctx, "mode changed",
		logger.Int("frame", a.frames),
		logger.String("from", from.String()),
		logger.String("to", to.String()),
	)

	if a.metrics != nil {
		a.metrics.RecordTransition()
	}

	if a.session == nil {
		return
	}
	t := &store.Transition{
		SessionID: a.session.ID,
		Frame:     a.frames,
		From:      from.String(),
		To:        to.String(),
	}
	if err := a.store.Transitions().Record(t); err != nil {
		a.log.Warn(ctx, "recording mode transition", logger.Error(err))
	}
}

// finishSession stores the frame count and final raw transform.
func (a *App) finishSession(ctx context.Context) {
	if a.session == nil {
		return
	}

	raw := a.state.Raw()

	a.mu.Lock()
	a.session.Frames = a.frames
	a.session.Scale = raw.Scale
	a.session.Angle = raw.Angle
	a.session.TranslationX = raw.Translation.X
	a.session.TranslationY = raw.Translation.Y
	err := a.store.Sessions().Finish(a.session)
	a.mu.Unlock()

	if err != nil {
		a.log.Warn(ctx, "finishing session", logger.Error(err))
		return
	}
	a.log.Info(ctx, "session saved",
		logger.String("session", a.session.ID),
		logger.Int("frames", a.frames),
		logger.Float64("scale", raw.Scale),
		logger.Float64("angle", raw.Angle),
	)
}
