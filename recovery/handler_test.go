package recovery

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver/dryrun"
	"github.com/stretchr/testify/require"
)

func newTestHandler(screenshots bool) (*Handler, *dryrun.Driver) {
	drv := dryrun.New()
	conf := config.Default()
	conf.ScreenshotOnError = screenshots
	conf.ScreenshotDir = "shots"
	h := NewHandler(testPolicy(), drv, conf)
	h.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	h.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return h, drv
}

func TestRun_RetriesTransientFailureThenSucceeds(t *testing.T) {
	h, _ := newTestHandler(false)
	calls := 0
	err := h.Run(context.Background(), "profile_navigation", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return netErr()
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRun_NeverExceedsMaxAttempts(t *testing.T) {
	h, _ := newTestHandler(false)
	calls := 0
	err := h.Run(context.Background(), "profile_navigation", func(ctx context.Context) error {
		calls++
		return netErr()
	})
	require.Error(t, err)
	require.Equal(t, h.policy.MaxAttempts(), calls)
}

// An authentication failure is not retryable and must surface after a
// single attempt.
func TestRun_AuthenticationStopsAfterOneAttempt(t *testing.T) {
	h, _ := newTestHandler(false)
	calls := 0
	err := h.Run(context.Background(), "message_delivery", func(ctx context.Context) error {
		calls++
		return authErr()
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRun_CancelledContextShortCircuits(t *testing.T) {
	h, _ := newTestHandler(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := h.Run(ctx, "profile_navigation", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, calls)
}

func TestHandle_CapturesDeterministicallyNamedScreenshot(t *testing.T) {
	h, drv := newTestHandler(true)
	h.Handle(context.Background(), authErr(), "Message Delivery", 0)

	var path string
	for _, c := range drv.Calls() {
		if c.Op == "screenshot" {
			path = c.Target
		}
	}
	require.Equal(t, "shots/error_message_delivery_1700000000000.png", path)
	require.Regexp(t, regexp.MustCompile(`^shots/error_[a-z0-9_]+_\d+\.png$`), path)
}

func TestHandle_NoScreenshotOnRetryDecision(t *testing.T) {
	h, drv := newTestHandler(true)
	require.Equal(t, DECISION_RETRY, h.Handle(context.Background(), netErr(), "profile_navigation", 0))
	require.Zero(t, drv.CallCount("screenshot", ""))
}

// Screenshot capture is diagnostics, never control flow: a failing
// capture must not change the decision or raise.
func TestHandle_CaptureFailureIsSwallowed(t *testing.T) {
	h, drv := newTestHandler(true)
	drv.FailNext("screenshot", errors.New("disk full"))
	require.NotPanics(t, func() {
		require.Equal(t, DECISION_SKIP, h.Handle(context.Background(), errors.New("boom"), "step", 0))
	})
}

func TestSanitizeReason(t *testing.T) {
	require.Equal(t, "message_delivery", sanitizeReason("Message Delivery"))
	require.Equal(t, "step_3_of_4", sanitizeReason(" Step 3 of:4 "))
}
