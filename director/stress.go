package director

import "fmt"

// StressSystem applies the tick's gameplay events to per-participant
// intensities and then decays every tracked participant.
type StressSystem struct{}

// NewStressSystem creates a StressSystem.
func NewStressSystem() *StressSystem { return &StressSystem{} }

// Update drains the tick's pending events, applies additive effects, then
// linear decay, and clamps every intensity to [0, 1]. An incapacitation hard
// sets 1.0 after everything else so it overrides same-tick deltas and decay.
func (st *StressSystem) Update(s *Session) {
	if s == nil || s.Config() == nil {
		return
	}
	cfg := s.Config()

	for _, ev := range s.drainPending() {
		if !KnownEventType(ev.Type) {
			// Validated at intake; re-checked here so a bad event can only
			// ever degrade this tick, never mutate tracker state.
			fmt.Printf("director: dropping unknown event type %q\n", ev.Type)
			continue
		}
		p := s.Join(ev.Participant)
		if p == nil {
			continue
		}
		if ev.Type == EventIncapacitated {
			p.incapacitated = true
		} else {
			p.Intensity += cfg.effect(ev.Type)
		}
	}

	s.ForEachParticipant(func(p *ParticipantStress) {
		p.Intensity -= cfg.DecayRate * s.DT
		p.Intensity = clamp01(p.Intensity)
		if p.incapacitated {
			p.Intensity = 1.0
			p.incapacitated = false
		}
		p.LastUpdate = s.Now
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
