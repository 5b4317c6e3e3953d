package director

// PhaseSystem drives the four-state dramatic-arc cycle. The override check
// runs before the timer so a critical team signal pre-empts normal
// advancement in the same tick. Peak always exits on its timer, even while
// the signal stays above the threshold; there is no permanent
// maximum-difficulty lock.
type PhaseSystem struct{}

// NewPhaseSystem creates a PhaseSystem.
func NewPhaseSystem() *PhaseSystem { return &PhaseSystem{} }

// Update advances the phase state machine by one tick.
func (ps *PhaseSystem) Update(s *Session) {
	if s == nil || s.Config() == nil {
		return
	}
	cfg := s.Config()

	if s.TeamSignal > cfg.OverrideThreshold && s.Phase.Current != PhasePeak {
		ps.transition(s, PhasePeak, true)
		return
	}

	pc, ok := cfg.Phases[s.Phase.Current]
	if !ok {
		return
	}
	s.Phase.Elapsed += s.DT
	if s.Phase.Elapsed < pc.Duration {
		return
	}
	if s.Phase.Current == PhasePeak && s.Phase.Elapsed >= cfg.PeakCooldownAfter {
		// A sustained peak earns the team a quiet window on the way back
		// around the cycle.
		s.QuietUntilBuild = true
	}
	ps.transition(s, pc.Next, false)
}

func (ps *PhaseSystem) transition(s *Session, to Phase, forced bool) {
	from := s.Phase.Current
	s.Phase.Current = to
	s.Phase.Elapsed = 0
	switch to {
	case PhasePeak:
		s.Wave++
		s.QuietUntilBuild = false
	case PhaseBuild:
		s.QuietUntilBuild = false
	}
	s.Events().Push(Event{Kind: OutboundPhaseChange, Data: PhaseChangeEvent{
		From:   from,
		To:     to,
		Forced: forced,
		Time:   s.Now,
	}})
}
