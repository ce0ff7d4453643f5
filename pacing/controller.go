// Package pacing keeps automated actions inside a human-plausible
// envelope: it delays actions that would exceed the configured rate
// limits and replaces instantaneous pointer jumps with incremental
// motion.
package pacing

import (
	"context"
	"math/rand"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/suspicion"
	"go.uber.org/zap"
)

type Controller struct {
	driver   driver.Driver
	ledger   *ledger.Ledger
	detector *suspicion.Detector
	conf     config.HumanBehaviorConfig
	rnd      *rand.Rand
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewController(drv driver.Driver, l *ledger.Ledger, det *suspicion.Detector, conf config.HumanBehaviorConfig) *Controller {
	return &Controller{
		driver:   drv,
		ledger:   l,
		detector: det,
		conf:     conf,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepContext,
	}
}

// sleepContext is a cooperative delay: it returns early when the
// context is cancelled instead of blocking the goroutine to the end.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckAndApplyCooldown must run before every externally visible
// action. When the recent action rate exceeds a configured limit it
// suspends the calling workflow step until the rate is back inside the
// envelope; within the limits it returns immediately. The only error
// it can return is context cancellation.
func (c *Controller) CheckAndApplyCooldown(ctx context.Context) error {
	if !c.conf.EnableCoolingOff {
		return nil
	}
	cooldown := c.ComputeCooldown()
	if cooldown <= 0 {
		return nil
	}
	// uniform waits are themselves a signature, so pad with jitter
	cooldown += c.microDelay()
	logger.Info("cooling off before next action", zap.Duration("wait", cooldown))
	return c.sleep(ctx, cooldown)
}

// ComputeCooldown returns how long the next action must wait to keep
// both the per-minute and per-hour rates within their limits, already
// scaled by the suspicion multiplier. Zero when the rate is fine.
func (c *Controller) ComputeCooldown() time.Duration {
	now := c.ledger.Now()
	wait := waitForWindow(c.ledger.Query(time.Minute), c.conf.ActionsPerMinute, time.Minute, now)
	if hourWait := waitForWindow(c.ledger.Query(time.Hour), c.conf.ActionsPerHour, time.Hour, now); hourWait > wait {
		wait = hourWait
	}
	if wait > 0 && c.detector != nil && c.conf.SuspicionCooldownMultiplier > 1 {
		if assessment := c.detector.Detect(); assessment.IsSuspicious {
			logger.Warn("suspicious activity detected, lengthening cooldown",
				zap.Any("patterns", assessment.Patterns),
				zap.String("recommendation", assessment.Recommendation))
			wait = time.Duration(float64(wait) * c.conf.SuspicionCooldownMultiplier)
		}
	}
	return wait
}

// waitForWindow computes how long until enough records age out of the
// rolling window for one more action to fit under the limit. recs must
// be ordered oldest first.
func waitForWindow(recs []model.ActionRecord, limit int, window time.Duration, now time.Time) time.Duration {
	if limit <= 0 || len(recs) < limit {
		return 0
	}
	blocking := recs[len(recs)-limit]
	if wait := blocking.Timestamp.Add(window).Sub(now); wait > 0 {
		return wait
	}
	return 0
}

// SimulateHumanMouseMovement moves the pointer toward the target in
// randomized increments instead of a single jump. The final increment
// lands exactly on the target.
func (c *Controller) SimulateHumanMouseMovement(ctx context.Context, targetX float64, targetY float64) error {
	steps := 12 + c.rnd.Intn(8)
	x := c.rnd.Float64() * 400
	y := c.rnd.Float64() * 300
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := x + (targetX-x)*t
		py := y + (targetY-y)*t
		if i < steps {
			px += (c.rnd.Float64() - 0.5) * 8
			py += (c.rnd.Float64() - 0.5) * 8
		}
		if err := c.driver.MouseMove(ctx, px, py); err != nil {
			return err
		}
		if err := c.sleep(ctx, c.microDelay()); err != nil {
			return err
		}
	}
	c.ledger.Record(model.ACTION_MOUSE_MOVE, map[string]any{"targetX": targetX, "targetY": targetY, "steps": steps})
	return nil
}

// SimulateHumanScrolling scrolls the page in uneven increments with
// randomized pauses, the way a reader skims a feed.
func (c *Controller) SimulateHumanScrolling(ctx context.Context) error {
	total := 400 + c.rnd.Intn(800)
	scrolled := 0
	for scrolled < total {
		delta := 80 + c.rnd.Intn(120)
		if err := c.driver.Scroll(ctx, float64(delta)); err != nil {
			return err
		}
		if err := c.sleep(ctx, c.microDelay()); err != nil {
			return err
		}
		scrolled += delta
	}
	c.ledger.Record(model.ACTION_SCROLL, map[string]any{"distance": scrolled})
	return nil
}

func (c *Controller) microDelay() time.Duration {
	min := c.conf.MinActionDelay
	max := c.conf.MaxActionDelay
	if max <= min {
		return min
	}
	return min + time.Duration(c.rnd.Int63n(int64(max-min)))
}
