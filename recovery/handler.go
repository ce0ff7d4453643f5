package recovery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/logger"
	"go.uber.org/zap"
)

// Handler pairs the pure policy with its driver loop and the error
// screenshot capture.
type Handler struct {
	policy            *Policy
	driver            driver.Driver
	screenshotOnError bool
	screenshotDir     string
	sleep             func(ctx context.Context, d time.Duration) error
	now               func() time.Time
}

func NewHandler(policy *Policy, drv driver.Driver, conf config.Config) *Handler {
	return &Handler{
		policy:            policy,
		driver:            drv,
		screenshotOnError: conf.ScreenshotOnError,
		screenshotDir:     conf.ScreenshotDir,
		sleep:             sleepContext,
		now:               time.Now,
	}
}

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

func (h *Handler) Policy() *Policy {
	return h.policy
}

// Run executes fn under the bounded retry loop. The loop never invokes
// fn more than MaxAttempts times; between retries it waits the policy's
// backoff. Skip and stop decisions end the loop with the classified
// error, which the caller surfaces or maps per its own contract.
func (h *Handler) Run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < h.policy.MaxAttempts(); attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("step succeeded after retry", zap.String("step", name), zap.Int("retries", attempt))
			}
			return nil
		}
		lastErr = err
		switch h.Handle(ctx, err, name, attempt) {
		case DECISION_RETRY:
			backoff := h.policy.Backoff(attempt)
			logger.Warn("retrying step",
				zap.String("step", name),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			if serr := h.sleep(ctx, backoff); serr != nil {
				return serr
			}
		default:
			return err
		}
	}
	return lastErr
}

// Handle classifies a failure, logs it, and captures a diagnostic
// screenshot for non-retryable outcomes.
func (h *Handler) Handle(ctx context.Context, err error, reason string, attempt int) Decision {
	decision := h.policy.Decide(err, attempt)
	logger.Error("action failed",
		zap.String("reason", reason),
		zap.Int("attempt", attempt),
		zap.String("decision", decision.String()),
		zap.Error(err))
	if h.screenshotOnError && decision != DECISION_RETRY {
		h.capture(ctx, reason)
	}
	return decision
}

// capture writes an error screenshot named deterministically from the
// failure reason and the capture time. It must never raise: any
// failure here is logged and swallowed.
func (h *Handler) capture(ctx context.Context, reason string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("screenshot capture panicked", zap.Any("panic", r))
		}
	}()
	name := fmt.Sprintf("error_%s_%d.png", sanitizeReason(reason), h.now().UnixMilli())
	path := filepath.Join(h.screenshotDir, name)
	if err := h.driver.Screenshot(ctx, path, driver.ScreenshotOptions{}); err != nil {
		logger.Warn("failed to capture error screenshot", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("error screenshot captured", zap.String("path", path))
}

func sanitizeReason(reason string) string {
	reason = strings.ToLower(strings.TrimSpace(reason))
	var b strings.Builder
	for _, r := range reason {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
