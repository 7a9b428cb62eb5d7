package engine

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultPickDelay is how long a sample request waits for a newer one.
const DefaultPickDelay = 40 * time.Millisecond

// PickResult is the outcome of Picker.Sample.
type PickResult struct {
	Hex        string `json:"hex,omitempty"`
	OK         bool   `json:"ok"`
	Superseded bool   `json:"superseded"`
}

type pickRequest struct {
	ref    string
	x, y   float64
	radius int
	done   chan PickResult
}

type pickTarget struct {
	debounced func(func())
	pending   *pickRequest
}

// Picker rate-limits interactive sampling with latest-wins semantics.
//
// Requests are grouped by a caller-chosen target name (one per draggable
// marker, say). Each request waits Delay; a newer request for the same target
// arriving in that window supersedes it, and the superseded caller returns at
// once with Superseded set. Once a request starts sampling it always
// completes. Because sampling is deterministic, a result for a given
// coordinate is the same no matter which request produced it.
//
// Picker is safe for concurrent use.
type Picker struct {
	engine *Engine
	delay  time.Duration

	mu      sync.Mutex
	targets map[string]*pickTarget
}

// NewPicker creates a picker over engine. A delay of zero or less selects
// DefaultPickDelay.
func NewPicker(engine *Engine, delay time.Duration) *Picker {
	if delay <= 0 {
		delay = DefaultPickDelay
	}
	return &Picker{
		engine:  engine,
		delay:   delay,
		targets: make(map[string]*pickTarget),
	}
}

// Sample queues a sample for target and waits for its result.
//
// Returns Superseded when a newer request for the same target replaced this
// one before it started, or when ctx ended while it was still pending.
func (p *Picker) Sample(ctx context.Context, target, ref string, xRel, yRel float64, radius int) PickResult {
	req := &pickRequest{
		ref:    ref,
		x:      xRel,
		y:      yRel,
		radius: radius,
		done:   make(chan PickResult, 1),
	}

	p.mu.Lock()
	t, ok := p.targets[target]
	if !ok {
		t = &pickTarget{debounced: debounce.New(p.delay)}
		p.targets[target] = t
	}
	if t.pending != nil {
		t.pending.done <- PickResult{Superseded: true}
	}
	t.pending = req
	t.debounced(func() { p.fire(target) })
	p.mu.Unlock()

	select {
	case res := <-req.done:
		return res
	case <-ctx.Done():
		p.mu.Lock()
		if t.pending == req {
			t.pending = nil
		}
		p.mu.Unlock()
		select {
		case res := <-req.done:
			return res
		default:
			return PickResult{Superseded: true}
		}
	}
}

// fire runs the latest pending request for target.
func (p *Picker) fire(target string) {
	p.mu.Lock()
	t := p.targets[target]
	if t == nil || t.pending == nil {
		// The pending request was abandoned by its caller.
		if t != nil {
			delete(p.targets, target)
		}
		p.mu.Unlock()
		return
	}
	req := t.pending
	t.pending = nil
	p.mu.Unlock()

	hex, ok := p.engine.SampleColor(context.Background(), req.ref, req.x, req.y, req.radius)
	req.done <- PickResult{Hex: hex, OK: ok}

	p.mu.Lock()
	if t.pending == nil && p.targets[target] == t {
		delete(p.targets, target)
	}
	p.mu.Unlock()
}

// Pending returns the number of targets with a request waiting to start.
func (p *Picker) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.targets {
		if t.pending != nil {
			n++
		}
	}
	return n
}
