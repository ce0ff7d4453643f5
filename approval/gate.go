// Package approval gates irreversible workflow steps behind an
// explicit operator signal. Each pending request owns a channel that
// Approve or Deny fulfills directly; there is no polling loop.
package approval

import (
	"context"
	"sync"

	"github.com/mohitgarg/socialflow/logger"
	"go.uber.org/zap"
)

type Request struct {
	Id      string
	Kind    string
	Summary string
}

type Gate struct {
	mu       sync.Mutex
	pending  map[string]chan bool
	listener func(Request)
}

func NewGate() *Gate {
	return &Gate{pending: make(map[string]chan bool)}
}

// SetListener registers a callback invoked when a request becomes
// pending, so a CLI or API surface can present it to the operator.
func (g *Gate) SetListener(fn func(Request)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listener = fn
}

// Wait blocks until the request is approved or denied, or the context
// is cancelled. It returns the operator's verdict.
func (g *Gate) Wait(ctx context.Context, req Request) (bool, error) {
	ch := make(chan bool, 1)
	g.mu.Lock()
	g.pending[req.Id] = ch
	listener := g.listener
	g.mu.Unlock()

	if listener != nil {
		listener(req)
	}
	logger.Info("awaiting approval", zap.String("request", req.Id), zap.String("kind", req.Kind))

	defer func() {
		g.mu.Lock()
		delete(g.pending, req.Id)
		g.mu.Unlock()
	}()
	select {
	case approved := <-ch:
		return approved, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (g *Gate) Approve(id string) bool {
	return g.resolve(id, true)
}

func (g *Gate) Deny(id string) bool {
	return g.resolve(id, false)
}

func (g *Gate) resolve(id string, approved bool) bool {
	g.mu.Lock()
	ch, ok := g.pending[id]
	if ok {
		delete(g.pending, id)
	}
	g.mu.Unlock()
	if !ok {
		return false
	}
	ch <- approved
	return true
}

// Pending lists the ids of requests still awaiting a verdict.
func (g *Gate) Pending() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.pending))
	for id := range g.pending {
		ids = append(ids, id)
	}
	return ids
}
