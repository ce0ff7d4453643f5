// Package dryrun provides an in-process simulated automation driver.
// Every capability call succeeds by default, so workflows can be
// rehearsed end to end without a browser. Failures and page conditions
// are scriptable, which is also what the engine's tests build on.
package dryrun

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mohitgarg/socialflow/driver"
)

type Call struct {
	Op     string
	Target string
}

type element struct {
	selector string
}

func (e element) Selector() string {
	return e.selector
}

type Driver struct {
	mu        sync.Mutex
	calls     []Call
	failures  map[string][]error
	missing   map[string]bool
	evalStubs []any
	connected bool
	current   string
	latency   time.Duration
}

var _ driver.Driver = (*Driver)(nil)

func New() *Driver {
	return &Driver{
		failures:  make(map[string][]error),
		missing:   make(map[string]bool),
		connected: true,
	}
}

// SetLatency makes every call take the given time, to rehearse pacing.
func (d *Driver) SetLatency(latency time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = latency
}

// FailNext queues err to be returned by the next call of op. Multiple
// queued errors are consumed in order; once drained the op succeeds
// again.
func (d *Driver) FailNext(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op] = append(d.failures[op], err)
}

// FailNextFor is FailNext scoped to one target (url or selector).
func (d *Driver) FailNextFor(op string, target string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := op + ":" + target
	d.failures[key] = append(d.failures[key], err)
}

// SetMissing marks selectors as absent from the simulated page, so
// WaitForSelector reports element-not-found for them.
func (d *Driver) SetMissing(selectors ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range selectors {
		d.missing[s] = true
	}
}

// SetPresent undoes SetMissing for the given selectors.
func (d *Driver) SetPresent(selectors ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range selectors {
		delete(d.missing, s)
	}
}

// StubEvaluate queues a value to be returned by the next Evaluate call.
func (d *Driver) StubEvaluate(v any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.evalStubs = append(d.evalStubs, v)
}

// Disconnect simulates the underlying browser connection dropping.
func (d *Driver) Disconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
}

func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallCount counts recorded calls of op; an empty target matches any.
func (d *Driver) CallCount(op string, target string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c.Op == op && (target == "" || c.Target == target) {
			n++
		}
	}
	return n
}

// begin records the call and resolves any scripted outcome for it.
func (d *Driver) begin(ctx context.Context, op string, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.calls = append(d.calls, Call{Op: op, Target: target})
	var scripted error
	key := op + ":" + target
	if q := d.failures[key]; len(q) > 0 {
		scripted, d.failures[key] = q[0], q[1:]
	} else if q := d.failures[op]; len(q) > 0 {
		scripted, d.failures[op] = q[0], q[1:]
	}
	connected := d.connected
	latency := d.latency
	d.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !connected && op != "connect" {
		return driver.NewError(driver.CODE_NETWORK, op, target, errors.New("browser connection closed"))
	}
	return scripted
}

func (d *Driver) Navigate(ctx context.Context, url string, opts driver.NavigateOptions) error {
	if err := d.begin(ctx, "navigate", url); err != nil {
		return err
	}
	d.mu.Lock()
	d.current = url
	d.mu.Unlock()
	return nil
}

func (d *Driver) WaitForSelector(ctx context.Context, selector string, opts driver.WaitOptions) (driver.ElementHandle, error) {
	if err := d.begin(ctx, "waitForSelector", selector); err != nil {
		return nil, err
	}
	d.mu.Lock()
	absent := d.missing[selector]
	d.mu.Unlock()
	if absent {
		return nil, driver.NewError(driver.CODE_ELEMENT_NOT_FOUND, "waitForSelector", selector,
			fmt.Errorf("selector not found on simulated page"))
	}
	return element{selector: selector}, nil
}

func (d *Driver) Click(ctx context.Context, el driver.ElementHandle) error {
	return d.begin(ctx, "click", el.Selector())
}

func (d *Driver) Type(ctx context.Context, el driver.ElementHandle, text string) error {
	return d.begin(ctx, "type", el.Selector())
}

func (d *Driver) MouseMove(ctx context.Context, x float64, y float64) error {
	return d.begin(ctx, "mouseMove", "")
}

func (d *Driver) Scroll(ctx context.Context, deltaY float64) error {
	return d.begin(ctx, "scroll", "")
}

func (d *Driver) Evaluate(ctx context.Context, script string) (any, error) {
	if err := d.begin(ctx, "evaluate", script); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.evalStubs) > 0 {
		var v any
		v, d.evalStubs = d.evalStubs[0], d.evalStubs[1:]
		return v, nil
	}
	return map[string]any{"x": 320.0, "y": 480.0}, nil
}

func (d *Driver) Screenshot(ctx context.Context, path string, opts driver.ScreenshotOptions) error {
	return d.begin(ctx, "screenshot", path)
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := d.begin(ctx, "currentURL", ""); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

func (d *Driver) Connect(ctx context.Context) error {
	if err := d.begin(ctx, "connect", ""); err != nil {
		return err
	}
	d.mu.Lock()
	d.connected = true
	d.mu.Unlock()
	return nil
}
