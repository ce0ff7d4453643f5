package driver

import (
	"context"
	"time"
)

// ElementHandle is an opaque reference to a located page element.
type ElementHandle interface {
	Selector() string
}

type NavigateOptions struct {
	WaitUntil string
	Timeout   time.Duration
}

type WaitOptions struct {
	Timeout time.Duration
	Visible bool
}

type ScreenshotOptions struct {
	FullPage bool
}

// Driver is the automation capability the engine consumes. It performs
// the real browser navigation and interaction; the engine never assumes
// a specific automation technology behind it. Timeouts on individual
// calls are the driver's responsibility; the engine classifies a driver
// timeout as a retryable failure.
type Driver interface {
	Navigate(ctx context.Context, url string, opts NavigateOptions) error
	WaitForSelector(ctx context.Context, selector string, opts WaitOptions) (ElementHandle, error)
	Click(ctx context.Context, el ElementHandle) error
	Type(ctx context.Context, el ElementHandle, text string) error
	MouseMove(ctx context.Context, x float64, y float64) error
	Scroll(ctx context.Context, deltaY float64) error
	Evaluate(ctx context.Context, script string) (any, error)
	Screenshot(ctx context.Context, path string, opts ScreenshotOptions) error
	CurrentURL(ctx context.Context) (string, error)
	IsConnected() bool
	Connect(ctx context.Context) error
}
