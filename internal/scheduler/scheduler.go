package scheduler

import (
	"context"
	"log"
	"time"
)

// Daily runs job once per day at the given wall-clock time ("HH:MM") in loc,
// until the context is cancelled. Jobs run sequentially on the scheduler's
// goroutine; a long run simply delays the next day's tick.
func Daily(ctx context.Context, loc *time.Location, at, name string, job func(context.Context)) {
	for {
		next := nextRun(time.Now().In(loc), at)
		wait := time.Until(next)
		log.Printf("[%s] next run at %s (in %s)", name, next.Format(time.RFC3339), wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[%s] scheduler stopped", name)
			return
		case <-timer.C:
			job(ctx)
		}
	}
}

// nextRun returns the next occurrence of at ("HH:MM") strictly after now,
// in now's location. Malformed input degrades to midnight.
func nextRun(now time.Time, at string) time.Time {
	clock, err := time.Parse("15:04", at)
	if err != nil {
		clock = time.Time{}
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
