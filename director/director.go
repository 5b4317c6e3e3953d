package director

import (
	"context"
	"sync"
	"time"
)

// Director owns one directed session and drives it at a fixed simulation
// step. Gameplay events recorded between ticks are queued and consumed by the
// next Step; outbound commands accumulate on the session queue until drained.
type Director struct {
	mu        sync.Mutex
	session   *Session
	scheduler *Scheduler
}

// New creates a director for the given session config. A nil config gets the
// stock tuning.
func New(cfg *SessionConfig) (*Director, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Director{
		session: NewSession(cfg),
		scheduler: NewScheduler(
			NewStressSystem(),
			NewAggregateSystem(),
			NewPhaseSystem(),
			NewSpawnSystem(),
		),
	}, nil
}

// Session exposes the session state for inspection. Callers must not mutate
// it outside the director's own entry points.
func (d *Director) Session() *Session {
	if d == nil {
		return nil
	}
	return d.session
}

// Join starts tracking a participant at zero intensity.
func (d *Director) Join(id string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.Join(id)
}

// Leave stops tracking a participant and discards its stress entry.
func (d *Director) Leave(id string) bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Leave(id)
}

// Record queues a gameplay event for the next tick. An event outside the
// fixed taxonomy is discarded with a ValidationError and leaves tracker
// state unchanged; an unknown participant is an implicit join at apply time.
func (d *Director) Record(ev GameplayEvent) error {
	if d == nil {
		return &ValidationError{Field: "director", Value: "nil"}
	}
	if ev.Participant == "" {
		return &ValidationError{Field: "participant", Value: ""}
	}
	if !KnownEventType(ev.Type) {
		return &ValidationError{Field: "event type", Value: string(ev.Type)}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.enqueue(ev)
	return nil
}

// Step runs exactly one fixed simulation tick: drain queued events, update
// stress, aggregate, phase, and spawn policy in order, then sample telemetry.
// Once begun a tick always runs to completion.
func (d *Director) Step() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.session
	cfg := s.Config()
	s.DT = 1 / cfg.TickRate
	d.scheduler.Update(s)
	s.Now += s.DT

	if cfg.SampleInterval > 0 && s.Now-s.lastSample >= cfg.SampleInterval {
		s.lastSample = s.Now
		s.Events().Push(Event{Kind: OutboundTelemetry, Data: TelemetrySample{
			TeamSignal: s.TeamSignal,
			Phase:      s.Phase.Current,
			Time:       s.Now,
		}})
	}
}

// Drain returns the outbound events accumulated since the last drain.
func (d *Director) Drain() []Event {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Events().Drain()
}

// ApplyTuning swaps the live tuning between ticks. The master seed, derived
// streams, participants, and phase runtime all survive, so a balancing
// reload never resets the session.
func (d *Director) ApplyTuning(cfg *SessionConfig) error {
	if d == nil || cfg == nil {
		return &ConfigError{Field: "config", Reason: "nil"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	cfg.MasterSeed = d.session.cfg.MasterSeed
	d.session.cfg = cfg
	return nil
}

// Run drives Step at the configured tick rate until ctx is done, passing each
// drained outbound event to emit. Teardown simply stops scheduling ticks;
// session state is discarded with the director.
func (d *Director) Run(ctx context.Context, emit func(Event)) error {
	if d == nil {
		return nil
	}
	interval := time.Duration(float64(time.Second) / d.session.Config().TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Step()
			if emit == nil {
				continue
			}
			for _, evt := range d.Drain() {
				emit(evt)
			}
		}
	}
}
