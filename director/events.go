package director

// EventType identifies a gameplay event consumed by the stress tracker.
type EventType string

const (
	EventDamaged       EventType = "damaged"
	EventKilledNear    EventType = "killed_near"
	EventKilledFar     EventType = "killed_far"
	EventLowHealth     EventType = "low_health"
	EventIncapacitated EventType = "incapacitated"
	EventFriendlyFire  EventType = "friendly_fire"
)

// KnownEventType reports whether t is part of the fixed event taxonomy.
func KnownEventType(t EventType) bool {
	switch t {
	case EventDamaged, EventKilledNear, EventKilledFar, EventLowHealth, EventIncapacitated, EventFriendlyFire:
		return true
	}
	return false
}

// GameplayEvent is produced by the external gameplay simulation.
type GameplayEvent struct {
	Participant string
	Type        EventType
	Timestamp   float64
}

// Phase identifies a dramatic-arc state.
type Phase string

const (
	PhaseRest    Phase = "rest"
	PhaseBuild   Phase = "build"
	PhasePeak    Phase = "peak"
	PhaseRelease Phase = "release"
)

// Phases lists the cycle in order.
var Phases = []Phase{PhaseRest, PhaseBuild, PhasePeak, PhaseRelease}

// Tier identifies a spawn-pool bucket.
type Tier string

const (
	TierAmbient Tier = "ambient"
	TierCommon  Tier = "common"
	TierElite   Tier = "elite"
	TierBoss    Tier = "boss"
)

// Tiers lists the tiers from lowest to highest.
var Tiers = []Tier{TierAmbient, TierCommon, TierElite, TierBoss}

// OutboundKind identifies outbound event types.
type OutboundKind string

const (
	OutboundSpawn       OutboundKind = "spawn"
	OutboundPhaseChange OutboundKind = "phase_change"
	OutboundTelemetry   OutboundKind = "telemetry"
	OutboundWarning     OutboundKind = "warning"
)

// SpawnCommand is sent to the external entity-spawning system.
type SpawnCommand struct {
	Tier     Tier
	Entities []string
	Rate     float64
	Time     float64
}

// PhaseChangeEvent is sent to external presentation systems on every transition.
type PhaseChangeEvent struct {
	From   Phase
	To     Phase
	Forced bool
	Time   float64
}

// TelemetrySample is exported at the configured sampling interval.
type TelemetrySample struct {
	TeamSignal float64
	Phase      Phase
	Time       float64
}

// Event is a generic outbound event payload.
type Event struct {
	Kind OutboundKind
	Data any
}

// EventQueue is a simple FIFO queue of outbound events.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
