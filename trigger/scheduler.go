package trigger

import (
	"context"
	"fmt"
	"log"
	"time"

	"quote-shorts-pipeline/config"
)

// Scheduler fires runs at fixed times of day, expressed in the target
// audience's timezone.
type Scheduler struct {
	times []clockTime
	loc   *time.Location
	gate  *Gate
}

type clockTime struct {
	hour, minute int
}

// NewScheduler parses the configured schedule.
func NewScheduler(cfg *config.Config, gate *Gate) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Schedule.Timezone, err)
	}
	var times []clockTime
	for _, s := range cfg.Schedule.Times {
		ct, err := parseClockTime(s)
		if err != nil {
			return nil, err
		}
		times = append(times, ct)
	}
	return &Scheduler{times: times, loc: loc, gate: gate}, nil
}

func parseClockTime(s string) (clockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return clockTime{}, fmt.Errorf("parse schedule time %q: %w", s, err)
	}
	return clockTime{hour: t.Hour(), minute: t.Minute()}, nil
}

// Next returns the earliest scheduled instant strictly after now.
func (s *Scheduler) Next(now time.Time) time.Time {
	now = now.In(s.loc)
	var best time.Time
	for day := 0; day <= 1; day++ {
		d := now.AddDate(0, 0, day)
		for _, ct := range s.times {
			cand := time.Date(d.Year(), d.Month(), d.Day(), ct.hour, ct.minute, 0, 0, s.loc)
			if cand.After(now) && (best.IsZero() || cand.Before(best)) {
				best = cand
			}
		}
	}
	return best
}

// Start blocks, firing runs at each scheduled time until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.times) == 0 {
		log.Println("[trigger] no scheduled times configured")
		<-ctx.Done()
		return
	}
	for {
		next := s.Next(time.Now())
		log.Printf("[trigger] next scheduled run: %s", next.Format(time.RFC1123))
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.gate.TryStart("schedule")
		}
	}
}
