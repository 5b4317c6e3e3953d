package director

import "fmt"

// SpawnDecision maps the current phase and team signal to a spawn rate and
// an entity-tier distribution. Weights always sum to 1 and rate is >= 0.
type SpawnDecision struct {
	Rate    float64
	Weights map[Tier]float64
}

// Decide computes the spawn decision for one tick. The signal band sets the
// tier weights; the phase multiplier scales only the rate. A pending quiet
// window re-biases weights to ambient and reduces the rate.
func Decide(cfg *SessionConfig, phase Phase, signal float64, quiet bool) SpawnDecision {
	if cfg == nil {
		return SpawnDecision{Weights: bandWeights(0)}
	}
	rate := cfg.BaseSpawnRate
	if pc, ok := cfg.Phases[phase]; ok {
		rate *= pc.RateMultiplier
	}
	weights := bandWeights(signal)
	if quiet {
		weights = bandWeights(0)
		rate *= cfg.QuietRateFactor
	}
	if rate < 0 {
		rate = 0
	}
	return SpawnDecision{Rate: rate, Weights: weights}
}

func bandWeights(signal float64) map[Tier]float64 {
	switch {
	case signal < 0.3:
		return map[Tier]float64{TierAmbient: 0.70, TierCommon: 0.25, TierElite: 0.05, TierBoss: 0.00}
	case signal <= 0.7:
		return map[Tier]float64{TierAmbient: 0.10, TierCommon: 0.60, TierElite: 0.25, TierBoss: 0.05}
	default:
		return map[Tier]float64{TierAmbient: 0.05, TierCommon: 0.30, TierElite: 0.40, TierBoss: 0.25}
	}
}

// SpawnSystem turns spawn decisions into concrete spawn commands using the
// session's wave-scoped deterministic streams.
type SpawnSystem struct{}

// NewSpawnSystem creates a SpawnSystem.
func NewSpawnSystem() *SpawnSystem { return &SpawnSystem{} }

type spawnPick struct {
	tier   Tier
	entity string
}

// Update accumulates fractional spawn budget at the decided rate and, once a
// whole entity is owed, draws the batch and emits one command per tier.
func (sp *SpawnSystem) Update(s *Session) {
	if s == nil || s.Config() == nil {
		return
	}
	cfg := s.Config()

	dec := Decide(cfg, s.Phase.Current, s.TeamSignal, s.QuietUntilBuild)
	s.spawnAccum += dec.Rate * s.DT
	count := int(s.spawnAccum)
	if count <= 0 {
		return
	}
	s.spawnAccum -= float64(count)

	stream := s.Seeds().Derive(fmt.Sprintf("wave:%d", s.Wave))
	picks := sp.drawBatch(s, stream, dec.Weights, count)
	if len(picks) == 0 {
		return
	}

	byTier := make(map[Tier][]string)
	for _, pick := range picks {
		byTier[pick.tier] = append(byTier[pick.tier], pick.entity)
	}
	for _, tier := range Tiers {
		entities, ok := byTier[tier]
		if !ok {
			continue
		}
		s.Events().Push(Event{Kind: OutboundSpawn, Data: SpawnCommand{
			Tier:     tier,
			Entities: entities,
			Rate:     dec.Rate,
			Time:     s.Now,
		}})
	}
}

// drawBatch draws count picks, re-drawing with a raised damage-capable floor
// when the quality gate rejects a batch, and falling back to the configured
// default set once the retry bound is exhausted.
func (sp *SpawnSystem) drawBatch(s *Session, stream Stream, weights map[Tier]float64, count int) []spawnPick {
	cfg := s.Config()
	gate := cfg.Gate

	for attempt := 0; ; attempt++ {
		picks := make([]spawnPick, 0, count)
		for i := 0; i < count; i++ {
			tier := PickTier(stream, weights)
			entity, actual, ok := sp.drawEntity(s, stream, tier)
			if !ok {
				continue
			}
			picks = append(picks, spawnPick{tier: actual, entity: entity})
		}
		if count < gate.MinBatch || gate.MinBatch <= 0 || hasDamageCapable(picks) {
			return picks
		}
		if attempt >= gate.MaxRetries {
			s.Events().Push(Event{Kind: OutboundWarning, Data: &QualityGateWarning{
				Retries: attempt,
				Time:    s.Now,
			}})
			return sp.fallbackPicks(cfg)
		}
		// Raise the damage-capable floor for this draw only.
		weights = raiseCommonFloor(weights)
	}
}

// drawEntity resolves tier's pool, substituting the nearest non-empty lower
// tier when a pool is missing or empty. It returns false only when every
// pool down to ambient is empty.
func (sp *SpawnSystem) drawEntity(s *Session, stream Stream, tier Tier) (string, Tier, bool) {
	cfg := s.Config()
	idx := tierIndex(tier)
	for i := idx; i >= 0; i-- {
		actual := Tiers[i]
		pool := cfg.Pools[actual]
		if len(pool) == 0 {
			continue
		}
		if i != idx {
			fmt.Printf("director: pool %q empty, substituting %q\n", tier, actual)
		}
		return DrawFrom(stream, pool, 1)[0], actual, true
	}
	fmt.Printf("director: no non-empty pool at or below tier %q\n", tier)
	return "", tier, false
}

func (sp *SpawnSystem) fallbackPicks(cfg *SessionConfig) []spawnPick {
	picks := make([]spawnPick, 0, len(cfg.Gate.Fallback))
	for _, entity := range cfg.Gate.Fallback {
		picks = append(picks, spawnPick{tier: entityTier(cfg, entity), entity: entity})
	}
	return picks
}

func hasDamageCapable(picks []spawnPick) bool {
	for _, pick := range picks {
		if pick.tier != TierAmbient {
			return true
		}
	}
	return false
}

func raiseCommonFloor(weights map[Tier]float64) map[Tier]float64 {
	out := make(map[Tier]float64, len(weights))
	for tier, w := range weights {
		out[tier] = w
	}
	if out[TierCommon] < 0.5 {
		out[TierCommon] = 0.5
	}
	total := 0.0
	for _, tier := range Tiers {
		total += out[tier]
	}
	if total > 0 {
		for tier, w := range out {
			out[tier] = w / total
		}
	}
	return out
}

func entityTier(cfg *SessionConfig, entity string) Tier {
	for _, tier := range Tiers {
		for _, id := range cfg.Pools[tier] {
			if id == entity {
				return tier
			}
		}
	}
	return TierCommon
}

func tierIndex(t Tier) int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return 0
}
