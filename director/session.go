package director

// ParticipantStress is the per-participant stress scalar. Owned exclusively
// by the stress system; one entry per active participant.
type ParticipantStress struct {
	ID            string
	Intensity     float64
	LastUpdate    float64
	incapacitated bool
}

// PhaseState is the dramatic-arc runtime. Exactly one per session.
type PhaseState struct {
	Current Phase
	Elapsed float64
}

// Session owns all mutable director state for one directed session. It plays
// the role the world plays for gameplay systems: systems read and mutate it in
// a fixed order inside a tick, and nothing outside the tick touches it.
type Session struct {
	cfg *SessionConfig

	Now     float64
	DT      float64
	pending []GameplayEvent

	participants map[string]*ParticipantStress
	order        []string

	TeamSignal float64
	Phase      PhaseState

	Wave            int
	QuietUntilBuild bool

	spawnAccum float64
	lastSample float64

	seeds  *SeedContext
	events EventQueue
}

// NewSession creates a session at rest with no participants.
func NewSession(cfg *SessionConfig) *Session {
	return &Session{
		cfg:          cfg,
		participants: make(map[string]*ParticipantStress),
		Phase:        PhaseState{Current: PhaseRest},
		seeds:        NewSeedContext(cfg.MasterSeed),
	}
}

// Config returns the active session config.
func (s *Session) Config() *SessionConfig {
	if s == nil {
		return nil
	}
	return s.cfg
}

// Seeds returns the session seed context.
func (s *Session) Seeds() *SeedContext {
	if s == nil {
		return nil
	}
	return s.seeds
}

// Events returns the outbound event queue.
func (s *Session) Events() *EventQueue {
	if s == nil {
		return nil
	}
	return &s.events
}

// Join creates a zero-initialized stress entry for id. Joining twice is a
// no-op that preserves current intensity.
func (s *Session) Join(id string) *ParticipantStress {
	if s == nil || id == "" {
		return nil
	}
	if p, ok := s.participants[id]; ok {
		return p
	}
	p := &ParticipantStress{ID: id, LastUpdate: s.Now}
	s.participants[id] = p
	s.order = append(s.order, id)
	return p
}

// Leave removes the stress entry for id.
func (s *Session) Leave(id string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.participants[id]; !ok {
		return false
	}
	delete(s.participants, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Participant returns the stress entry for id, if tracked.
func (s *Session) Participant(id string) (*ParticipantStress, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.participants[id]
	return p, ok
}

// ParticipantCount reports the number of tracked participants.
func (s *Session) ParticipantCount() int {
	if s == nil {
		return 0
	}
	return len(s.participants)
}

// ForEachParticipant visits tracked participants in join order.
func (s *Session) ForEachParticipant(fn func(p *ParticipantStress)) {
	if s == nil || fn == nil {
		return
	}
	for _, id := range s.order {
		if p, ok := s.participants[id]; ok {
			fn(p)
		}
	}
}

// enqueue appends a validated gameplay event for the next tick.
func (s *Session) enqueue(ev GameplayEvent) {
	s.pending = append(s.pending, ev)
}

// drainPending returns the events accumulated since the previous tick.
func (s *Session) drainPending() []GameplayEvent {
	if len(s.pending) == 0 {
		return nil
	}
	out := s.pending
	s.pending = nil
	return out
}
