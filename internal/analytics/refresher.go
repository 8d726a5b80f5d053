package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Refresher runs snapshot refreshes as detached tasks after a successful
// submit. Failures are logged and swallowed; they never surface to the flow
// that triggered them.
type Refresher struct {
	svc     *Service
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

func NewRefresher(svc *Service, timeout time.Duration, logger zerolog.Logger) *Refresher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Refresher{svc: svc, timeout: timeout, logger: logger}
}

// Trigger schedules a refresh for the artist and returns immediately.
func (r *Refresher) Trigger(artistID string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.svc.Refresh(ctx, artistID); err != nil {
			r.logger.Warn().Err(err).Str("artist_id", artistID).Msg("analytics: background refresh failed")
			return
		}
		r.logger.Debug().Str("artist_id", artistID).Msg("analytics: background refresh completed")
	}()
}

// Wait blocks until in-flight refreshes finish. Used on shutdown and in
// tests.
func (r *Refresher) Wait() {
	r.wg.Wait()
}
