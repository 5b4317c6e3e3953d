package director

// AggregateSystem reduces all participant intensities to the team signal.
// Policy is the arithmetic mean, not the max: one struggling participant
// cannot alone force team-wide peak pressure.
type AggregateSystem struct{}

// NewAggregateSystem creates an AggregateSystem.
func NewAggregateSystem() *AggregateSystem { return &AggregateSystem{} }

// Update recomputes the team signal from the frozen participant set.
// Zero participants means the session is at rest: signal 0.
func (a *AggregateSystem) Update(s *Session) {
	if s == nil {
		return
	}
	n := s.ParticipantCount()
	if n == 0 {
		s.TeamSignal = 0
		return
	}
	sum := 0.0
	s.ForEachParticipant(func(p *ParticipantStress) {
		sum += p.Intensity
	})
	s.TeamSignal = sum / float64(n)
}
