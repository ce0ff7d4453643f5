// Package recovery classifies failures and decides, per attempt,
// whether a workflow step is retried, skipped or whether the whole
// operation must stop. The policy is a pure function so it stays
// testable apart from the I/O that drives it.
package recovery

import (
	"errors"
	"time"

	"github.com/mohitgarg/socialflow/config"
	"github.com/mohitgarg/socialflow/driver"
	"github.com/mohitgarg/socialflow/model"
)

type Decision int

const DECISION_RETRY Decision = 1
const DECISION_SKIP Decision = 2
const DECISION_STOP Decision = 3

func (d Decision) String() string {
	switch d {
	case DECISION_RETRY:
		return "retry"
	case DECISION_SKIP:
		return "skip"
	case DECISION_STOP:
		return "stop"
	default:
		return "unknown"
	}
}

type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func NewPolicy(conf config.ErrorHandlingConfig) *Policy {
	p := &Policy{
		maxAttempts: conf.RetryAttempts,
		baseDelay:   conf.RetryBaseDelay,
		maxDelay:    conf.MaxRetryDelay,
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = 3
	}
	if p.baseDelay <= 0 {
		p.baseDelay = time.Second
	}
	if p.maxDelay <= 0 {
		p.maxDelay = 30 * time.Second
	}
	return p
}

func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}

// Decide maps a failure and the zero-based attempt counter to a
// recovery decision. Transient categories retry until attempts are
// exhausted and then skip so a surrounding batch can continue;
// per-item conditions skip immediately; session-wide conditions stop.
func (p *Policy) Decide(err error, attempt int) Decision {
	var alreadyConnected model.AlreadyConnectedError
	if errors.As(err, &alreadyConnected) {
		return DECISION_SKIP
	}
	var validation model.ValidationError
	if errors.As(err, &validation) {
		return DECISION_SKIP
	}
	var denied model.ApprovalDeniedError
	if errors.As(err, &denied) {
		return DECISION_SKIP
	}
	switch driver.CodeOf(err) {
	case driver.CODE_NETWORK, driver.CODE_RATE_LIMITED:
		if attempt+1 < p.maxAttempts {
			return DECISION_RETRY
		}
		return DECISION_SKIP
	case driver.CODE_AUTHENTICATION:
		return DECISION_STOP
	case driver.CODE_ELEMENT_NOT_FOUND, driver.CODE_VALIDATION:
		return DECISION_SKIP
	default:
		// unknown failures are fatal for the item, never for the batch
		return DECISION_SKIP
	}
}

// DecideFinal is the batch-level decision for an error whose retries
// are already spent: stop aborts the remaining operations, anything
// else fails only the one item.
func (p *Policy) DecideFinal(err error) Decision {
	if p.Decide(err, p.maxAttempts) == DECISION_STOP {
		return DECISION_STOP
	}
	return DECISION_SKIP
}

// Backoff returns the delay before the given retry, growing
// exponentially from the base delay and capped at the configured
// maximum.
func (p *Policy) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return p.maxDelay
	}
	d := p.baseDelay * time.Duration(1<<uint(attempt))
	if d > p.maxDelay || d <= 0 {
		return p.maxDelay
	}
	return d
}
