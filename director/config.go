package director

import "fmt"

// PhaseConfig holds the immutable per-phase tuning loaded at session start.
type PhaseConfig struct {
	Duration       float64
	Next           Phase
	RateMultiplier float64
}

// QualityGate bounds re-draws when a spawn batch has no damage-capable
// entities in winnable content.
type QualityGate struct {
	MinBatch   int
	MaxRetries int
	Fallback   []string
}

// SessionConfig is provided once at session start.
type SessionConfig struct {
	TickRate          float64
	Phases            map[Phase]PhaseConfig
	OverrideThreshold float64
	DecayRate         float64
	Effects           map[EventType]float64
	BaseSpawnRate     float64
	Pools             map[Tier][]string
	Gate              QualityGate
	PeakCooldownAfter float64
	QuietRateFactor   float64
	SampleInterval    float64
	MasterSeed        int64
}

// DefaultConfig returns a SessionConfig with the stock tuning. Pools are left
// empty; callers normally load them from a session spec.
func DefaultConfig() *SessionConfig {
	return &SessionConfig{
		TickRate: 30,
		Phases: map[Phase]PhaseConfig{
			PhaseRest:    {Duration: 30, Next: PhaseBuild, RateMultiplier: 0.25},
			PhaseBuild:   {Duration: 60, Next: PhasePeak, RateMultiplier: 1.0},
			PhasePeak:    {Duration: 15, Next: PhaseRelease, RateMultiplier: 2.25},
			PhaseRelease: {Duration: 20, Next: PhaseRest, RateMultiplier: 0.5},
		},
		OverrideThreshold: 0.85,
		DecayRate:         0.01,
		Effects: map[EventType]float64{
			EventDamaged:      0.10,
			EventKilledNear:   0.05,
			EventKilledFar:    0.00,
			EventLowHealth:    0.08,
			EventFriendlyFire: 0.00,
		},
		BaseSpawnRate:     1.0,
		Pools:             map[Tier][]string{},
		Gate:              QualityGate{MinBatch: 3, MaxRetries: 3},
		PeakCooldownAfter: 10,
		QuietRateFactor:   0.5,
		SampleInterval:    1,
	}
}

// Validate checks the config invariants the director relies on.
func (c *SessionConfig) Validate() error {
	if c == nil {
		return &ConfigError{Field: "config", Reason: "nil"}
	}
	if c.TickRate <= 0 {
		return &ConfigError{Field: "tick_rate", Reason: "must be > 0"}
	}
	for _, phase := range Phases {
		pc, ok := c.Phases[phase]
		if !ok {
			return &ConfigError{Field: "phases", Reason: fmt.Sprintf("missing phase %q", phase)}
		}
		if pc.Duration <= 0 {
			return &ConfigError{Field: "phases", Reason: fmt.Sprintf("phase %q duration must be > 0", phase)}
		}
		if pc.RateMultiplier < 0 {
			return &ConfigError{Field: "phases", Reason: fmt.Sprintf("phase %q multiplier must be >= 0", phase)}
		}
		if !knownPhase(pc.Next) {
			return &ConfigError{Field: "phases", Reason: fmt.Sprintf("phase %q has unknown next %q", phase, pc.Next)}
		}
	}
	if c.OverrideThreshold <= 0 || c.OverrideThreshold > 1 {
		return &ConfigError{Field: "override_threshold", Reason: "must be in (0, 1]"}
	}
	if c.DecayRate < 0 {
		return &ConfigError{Field: "decay_rate", Reason: "must be >= 0"}
	}
	if c.BaseSpawnRate < 0 {
		return &ConfigError{Field: "base_spawn_rate", Reason: "must be >= 0"}
	}
	for ev := range c.Effects {
		if !KnownEventType(ev) {
			return &ConfigError{Field: "effects", Reason: fmt.Sprintf("unknown event type %q", ev)}
		}
	}
	for tier := range c.Pools {
		if !knownTier(tier) {
			return &ConfigError{Field: "pools", Reason: fmt.Sprintf("unknown tier %q", tier)}
		}
	}
	if c.Gate.MaxRetries < 0 {
		return &ConfigError{Field: "quality_gate", Reason: "max_retries must be >= 0"}
	}
	if c.SampleInterval < 0 {
		return &ConfigError{Field: "sample_interval", Reason: "must be >= 0"}
	}
	return nil
}

// effect returns the additive intensity delta for ev.
func (c *SessionConfig) effect(ev EventType) float64 {
	if c == nil || c.Effects == nil {
		return 0
	}
	return c.Effects[ev]
}

func knownPhase(p Phase) bool {
	switch p {
	case PhaseRest, PhaseBuild, PhasePeak, PhaseRelease:
		return true
	}
	return false
}

func knownTier(t Tier) bool {
	switch t {
	case TierAmbient, TierCommon, TierElite, TierBoss:
		return true
	}
	return false
}
