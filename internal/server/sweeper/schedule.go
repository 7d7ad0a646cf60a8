package sweeper

import (
	"context"
	"time"
)

// Run triggers a sweep once a day at the given local time-of-day until ctx
// is cancelled. The job body is Sweep; triggering is all this loop does.
func (s *Sweeper) Run(ctx context.Context, hour, minute int) {
	for {
		wait := time.Until(nextRun(s.now(), hour, minute))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.Sweep(ctx, s.now()); err != nil {
			s.logger.Error(ctx, "sweep failed", "error", err)
		}
	}
}

// nextRun returns the next occurrence of hour:minute strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
