package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"foldertoword/internal/config"
)

// Reaper periodically removes stored documents older than the configured TTL.
type Reaper struct {
	svc      DocumentService
	ttl      time.Duration
	schedule string
	log      zerolog.Logger
	cron     *cron.Cron
}

// NewReaper returns a Reaper for svc. It does nothing until Start is called.
func NewReaper(svc DocumentService, cfg config.ReaperConfig, log zerolog.Logger) *Reaper {
	return &Reaper{
		svc:      svc,
		ttl:      cfg.TTL,
		schedule: cfg.Schedule,
		log:      log.With().Str("component", "reaper").Logger(),
	}
}

// Enabled reports whether documents expire at all.
func (r *Reaper) Enabled() bool {
	return r.ttl > 0
}

// RunOnce removes documents older than the TTL as of now.
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	if !r.Enabled() {
		return 0, nil
	}
	start := now()
	n, err := r.svc.Reap(ctx, start.Add(-r.ttl))
	if err != nil {
		r.log.Error().Err(err).Int("removed", n).Msg("reap failed")
		return n, err
	}
	r.log.Info().
		Str("event", "documents_reaped").
		Int("removed", n).
		Dur("ttl", r.ttl).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("reap finished")
	return n, nil
}

// Start schedules RunOnce. An invalid schedule is returned as an error.
func (r *Reaper) Start() error {
	if !r.Enabled() {
		r.log.Info().Msg("document expiry disabled")
		return nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(r.schedule, func() { _, _ = r.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("reaper schedule %q: %w", r.schedule, err)
	}
	c.Start()
	r.cron = c
	r.log.Info().Str("schedule", r.schedule).Dur("ttl", r.ttl).Msg("reaper started")
	return nil
}

// Stop halts scheduling and waits for a running pass until ctx is done.
func (r *Reaper) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}
