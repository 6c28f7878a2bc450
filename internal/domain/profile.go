package domain

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const ContextProfileKey = "runProfile"

// RunProfile collects wall-clock timings for the phases of a batch run.
// Phases at the top level are sequential; safe for the concurrent
// executor because AddPhase locks.
type RunProfile struct {
	mu      sync.Mutex
	Phases  []*PhaseSpan `json:"phases"`
	TotalMs *int64       `json:"totalMs"`
	startTs time.Time
}

type PhaseSpan struct {
	Name      string `json:"name"`
	ElapsedMs *int64 `json:"elapsedMs"`
	startTs   time.Time
}

func NewRunProfile() (*RunProfile, func()) {
	p := &RunProfile{
		Phases:  []*PhaseSpan{},
		startTs: time.Now(),
	}
	return p, p.End
}

func (p *RunProfile) End() {
	t := time.Since(p.startTs).Milliseconds()
	if p.TotalMs == nil {
		p.TotalMs = &t
	}
}

// StartPhase opens a named phase and returns its closer. A nil profile
// is a no-op so callers never need to guard.
func (p *RunProfile) StartPhase(name string) func() {
	if p == nil {
		return func() {}
	}
	span := &PhaseSpan{
		Name:    name,
		startTs: time.Now(),
	}
	p.mu.Lock()
	p.Phases = append(p.Phases, span)
	p.mu.Unlock()

	return func() {
		if span.ElapsedMs == nil {
			t := time.Since(span.startTs).Milliseconds()
			span.ElapsedMs = &t
		}
	}
}

func (p *RunProfile) ToJsonBytes() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return json.Marshal(p)
}

func WithProfile(ctx context.Context, p *RunProfile) context.Context {
	return context.WithValue(ctx, ContextProfileKey, p)
}

// ProfileFromContext returns the attached profile or nil; nil is usable
// by StartPhase.
func ProfileFromContext(ctx context.Context) *RunProfile {
	p, ok := ctx.Value(ContextProfileKey).(*RunProfile)
	if !ok {
		return nil
	}
	return p
}
