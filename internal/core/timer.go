package core

import (
	"context"
	"time"
)

// Pacer keeps a frame loop near a target rate. After each frame the loop waits
// for whatever is left of the frame budget; a frame that overran its budget
// waits zero. There is no catch-up and no frame skipping.
type Pacer struct {
	step  time.Duration
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewPacer constructs a Pacer targeting the given frames per second.
func NewPacer(fps int) *Pacer {
	p := &Pacer{sleep: sleepCtx, now: time.Now}
	p.SetFPS(fps)
	return p
}

// SetFPS changes the frame rate. Non-positive values fall back to 60.
func (p *Pacer) SetFPS(fps int) {
	if fps <= 0 {
		fps = 60
	}
	p.step = time.Second / time.Duration(fps)
}

// Interval returns the frame budget.
func (p *Pacer) Interval() time.Duration { return p.step }

// Remaining returns how long to wait after a frame that started at start.
func (p *Pacer) Remaining(start time.Time) time.Duration {
	left := p.step - p.now().Sub(start)
	if left < 0 {
		return 0
	}
	return left
}

// Wait blocks until the frame that started at start has used its budget or
// ctx is done, in which case it returns ctx.Err().
func (p *Pacer) Wait(ctx context.Context, start time.Time) error {
	return p.sleep(ctx, p.Remaining(start))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
