// Package nav implements the navigation primitives workflows are built
// from: thin sequencing over the automation driver, with pacing applied
// before and an action record written after every visible action.
package nav

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/ledger"
	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/pacing"
	"go.uber.org/zap"
)

// probeTimeout bounds existence checks for optional affordances, which
// are expected to fail fast when the element is not on the page.
const probeTimeout = 3 * time.Second

type Navigator struct {
	driver  driver.Driver
	pacing  *pacing.Controller
	ledger  *ledger.Ledger
	baseURL string
	timeout time.Duration
}

func NewNavigator(drv driver.Driver, pc *pacing.Controller, l *ledger.Ledger, conf config.Config) *Navigator {
	return &Navigator{
		driver:  drv,
		pacing:  pc,
		ledger:  l,
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		timeout: conf.NavigationTimeout,
	}
}

// NormalizeProfileURL accepts a bare profile id or any profile URL and
// returns the canonical profile URL form.
func (n *Navigator) NormalizeProfileURL(idOrURL string) (string, error) {
	idOrURL = strings.TrimSpace(idOrURL)
	if idOrURL == "" {
		return "", model.ValidationError{Field: "profileId", Reason: "must not be empty"}
	}
	id := idOrURL
	if strings.HasPrefix(idOrURL, "http://") || strings.HasPrefix(idOrURL, "https://") {
		parsed, err := url.Parse(idOrURL)
		if err != nil {
			return "", model.ValidationError{Field: "profileId", Reason: fmt.Sprintf("unparseable url: %v", err)}
		}
		idx := strings.Index(parsed.Path, ProfilePathPrefix)
		if idx < 0 {
			return "", model.ValidationError{Field: "profileId", Reason: "url does not point at a profile"}
		}
		id = strings.Trim(parsed.Path[idx+len(ProfilePathPrefix):], "/")
		if slash := strings.Index(id, "/"); slash >= 0 {
			id = id[:slash]
		}
	}
	if id == "" || strings.ContainsAny(id, " \t?#") {
		return "", model.ValidationError{Field: "profileId", Reason: fmt.Sprintf("%q is not a valid profile id", id)}
	}
	return n.baseURL + ProfilePathPrefix + id + "/", nil
}

// ProfileIdFromURL extracts the profile id back out of a canonical URL.
func ProfileIdFromURL(profileURL string) string {
	idx := strings.Index(profileURL, ProfilePathPrefix)
	if idx < 0 {
		return profileURL
	}
	return strings.Trim(profileURL[idx+len(ProfilePathPrefix):], "/")
}

// ToProfile navigates to the profile identified by id or URL and
// returns the canonical URL it landed on.
func (n *Navigator) ToProfile(ctx context.Context, idOrURL string) (string, error) {
	profileURL, err := n.NormalizeProfileURL(idOrURL)
	if err != nil {
		return "", err
	}
	if err := n.pacing.CheckAndApplyCooldown(ctx); err != nil {
		return "", err
	}
	opts := driver.NavigateOptions{WaitUntil: "networkidle2", Timeout: n.timeout}
	if err := n.driver.Navigate(ctx, profileURL, opts); err != nil {
		return "", fmt.Errorf("navigate to profile: %w", err)
	}
	n.ledger.Record(model.ACTION_NAVIGATION, map[string]any{"url": profileURL})
	return profileURL, nil
}

// OpenMessageThread opens the messaging surface for the profile that is
// currently on screen. It prefers the profile's message affordance and
// falls back to the direct thread URL when the affordance is absent.
func (n *Navigator) OpenMessageThread(ctx context.Context, profileId string) error {
	el, err := n.probe(ctx, SelectorMessageButton)
	switch {
	case err == nil:
		if err := n.Click(ctx, el, "message"); err != nil {
			return err
		}
	case driver.CodeOf(err) == driver.CODE_ELEMENT_NOT_FOUND:
		logger.Debug("message affordance not found, using direct thread url", zap.String("profileId", profileId))
		threadURL := n.baseURL + fmt.Sprintf(ThreadPathFormat, url.QueryEscape(profileId))
		if err := n.pacing.CheckAndApplyCooldown(ctx); err != nil {
			return err
		}
		opts := driver.NavigateOptions{WaitUntil: "networkidle2", Timeout: n.timeout}
		if err := n.driver.Navigate(ctx, threadURL, opts); err != nil {
			return fmt.Errorf("navigate to message thread: %w", err)
		}
		n.ledger.Record(model.ACTION_NAVIGATION, map[string]any{"url": threadURL})
	default:
		return err
	}
	if _, err := n.Locate(ctx, SelectorMessageComposer); err != nil {
		return fmt.Errorf("messaging surface did not open: %w", err)
	}
	return nil
}

// OpenPostComposer navigates to the feed and opens the share box.
func (n *Navigator) OpenPostComposer(ctx context.Context) error {
	if err := n.pacing.CheckAndApplyCooldown(ctx); err != nil {
		return err
	}
	feedURL := n.baseURL + FeedPath
	opts := driver.NavigateOptions{WaitUntil: "networkidle2", Timeout: n.timeout}
	if err := n.driver.Navigate(ctx, feedURL, opts); err != nil {
		return fmt.Errorf("navigate to feed: %w", err)
	}
	n.ledger.Record(model.ACTION_NAVIGATION, map[string]any{"url": feedURL})

	trigger, err := n.Locate(ctx, SelectorShareBoxTrigger)
	if err != nil {
		return err
	}
	if err := n.Click(ctx, trigger, "share_box"); err != nil {
		return err
	}
	if _, err := n.Locate(ctx, SelectorPostEditor); err != nil {
		return fmt.Errorf("post composer did not open: %w", err)
	}
	return nil
}

// ConnectionStatus reports whether the on-screen profile is already
// connected or has a pending invitation.
func (n *Navigator) ConnectionStatus(ctx context.Context, profileId string) (bool, error) {
	// a visible connect affordance settles it
	if _, err := n.probe(ctx, SelectorConnectButton); err == nil {
		return false, nil
	} else if driver.CodeOf(err) != driver.CODE_ELEMENT_NOT_FOUND {
		return false, err
	}
	if _, err := n.probe(ctx, SelectorPendingButton); err == nil {
		return true, nil
	} else if driver.CodeOf(err) != driver.CODE_ELEMENT_NOT_FOUND {
		return false, err
	}
	// no connect affordance: a visible message affordance means the
	// profile is already in the network
	if _, err := n.probe(ctx, SelectorMessageButton); err == nil {
		return true, nil
	} else if driver.CodeOf(err) != driver.CODE_ELEMENT_NOT_FOUND {
		return false, err
	}
	return false, driver.NewError(driver.CODE_ELEMENT_NOT_FOUND, "connectionStatus", SelectorConnectButton,
		fmt.Errorf("no connect, pending or message affordance on profile %s", profileId))
}

// ClickConnect locates and clicks the connect affordance. Finding a
// message or pending affordance instead is reported as the
// already-connected condition.
func (n *Navigator) ClickConnect(ctx context.Context, profileId string) error {
	el, err := n.probe(ctx, SelectorConnectButton)
	if err != nil {
		if driver.CodeOf(err) != driver.CODE_ELEMENT_NOT_FOUND {
			return err
		}
		if _, perr := n.probe(ctx, SelectorPendingButton); perr == nil {
			return model.AlreadyConnectedError{ProfileId: profileId}
		}
		if _, merr := n.probe(ctx, SelectorMessageButton); merr == nil {
			return model.AlreadyConnectedError{ProfileId: profileId}
		}
		return err
	}
	return n.Click(ctx, el, "connect")
}

// Locate waits for the selector with the configured navigation timeout.
func (n *Navigator) Locate(ctx context.Context, selector string) (driver.ElementHandle, error) {
	return n.driver.WaitForSelector(ctx, selector, driver.WaitOptions{Timeout: n.timeout, Visible: true})
}

// probe is an existence check with a short timeout.
func (n *Navigator) probe(ctx context.Context, selector string) (driver.ElementHandle, error) {
	return n.driver.WaitForSelector(ctx, selector, driver.WaitOptions{Timeout: probeTimeout, Visible: true})
}

// Click moves the pointer to the element along a human-looking path
// and clicks it. control names the affordance in the action record.
func (n *Navigator) Click(ctx context.Context, el driver.ElementHandle, control string) error {
	if err := n.pacing.CheckAndApplyCooldown(ctx); err != nil {
		return err
	}
	x, y := n.elementCenter(ctx, el.Selector())
	if err := n.pacing.SimulateHumanMouseMovement(ctx, x, y); err != nil {
		return err
	}
	if err := n.driver.Click(ctx, el); err != nil {
		return fmt.Errorf("click %s: %w", control, err)
	}
	n.ledger.Record(model.ACTION_CLICK, map[string]any{"control": control})
	return nil
}

// TypeInto types text into the element. field names the input in the
// action record; the text itself is never recorded.
func (n *Navigator) TypeInto(ctx context.Context, el driver.ElementHandle, text string, field string) error {
	if err := n.pacing.CheckAndApplyCooldown(ctx); err != nil {
		return err
	}
	if err := n.driver.Type(ctx, el, text); err != nil {
		return fmt.Errorf("type into %s: %w", field, err)
	}
	n.ledger.Record(model.ACTION_TYPING, map[string]any{"field": field, "length": len(text)})
	return nil
}

// elementCenter asks the page for the element's bounding box center.
// Falls back to a fixed viewport point when the page cannot answer;
// the motion path matters more than the exact endpoint.
func (n *Navigator) elementCenter(ctx context.Context, selector string) (float64, float64) {
	script := fmt.Sprintf(
		`(() => { const r = document.querySelector(%q).getBoundingClientRect(); return {x: r.x + r.width/2, y: r.y + r.height/2}; })()`,
		selector)
	v, err := n.driver.Evaluate(ctx, script)
	if err == nil {
		if box, ok := v.(map[string]any); ok {
			x, xok := box["x"].(float64)
			y, yok := box["y"].(float64)
			if xok && yok {
				return x, y
			}
		}
	}
	return 400, 300
}
