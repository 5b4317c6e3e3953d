package director

// System advances one director concern for a single tick.
type System interface {
	Update(s *Session)
}

// Scheduler runs systems in a fixed order each tick. The pacing contract
// depends on the order: stress before aggregation, aggregation before phase
// advancement, phase before spawn policy.
type Scheduler struct {
	systems []System
}

// NewScheduler creates a scheduler over the given systems.
func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

// Add appends a system to the update order.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs all systems once against the session.
func (s *Scheduler) Update(sess *Session) {
	for _, system := range s.systems {
		if system != nil {
			system.Update(sess)
		}
	}
}

// Systems returns a copy of the update order.
func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
