package director

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"sync"
)

// SeedContext derives independent deterministic streams from the session
// master seed, one per scope key. Streams are created lazily and cached for
// the session lifetime: the same master seed and scope key always resolve to
// the same stream and therefore the same sequence of draws.
//
// These streams exist only for spawn selection. Gameplay-action randomness
// must never read or write them, so replaying a master seed against the same
// event sequence reproduces identical spawn choices regardless of timing
// noise elsewhere in the simulation.
type SeedContext struct {
	master int64

	mu      sync.Mutex
	streams map[string]*rand.Rand
}

// NewSeedContext creates a seed context for the given master seed.
func NewSeedContext(master int64) *SeedContext {
	return &SeedContext{
		master:  master,
		streams: make(map[string]*rand.Rand),
	}
}

// MasterSeed returns the session master seed.
func (c *SeedContext) MasterSeed() int64 {
	if c == nil {
		return 0
	}
	return c.master
}

// Derive returns the cached stream for scope, creating it on first use.
// Creation is idempotent: the first creator wins and later lookups return
// the cached stream.
func (c *SeedContext) Derive(scope string) *rand.Rand {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if stream, ok := c.streams[scope]; ok {
		return stream
	}
	stream := rand.New(rand.NewSource(deriveSeed(c.master, scope)))
	c.streams[scope] = stream
	return stream
}

// deriveSeed is a stable one-way function of (master, scope).
func deriveSeed(master int64, scope string) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(master))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(scope))
	return int64(h.Sum64())
}

// Stream is the draw surface selectors need; *rand.Rand satisfies it.
type Stream interface {
	Intn(n int) int
	Float64() float64
}

// DrawFrom selects count entity identifiers from pool using stream,
// with replacement, preserving draw order.
func DrawFrom(stream Stream, pool []string, count int) []string {
	if stream == nil || len(pool) == 0 || count <= 0 {
		return nil
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, pool[stream.Intn(len(pool))])
	}
	return out
}

// PickTier draws one tier from weights using stream. Iteration follows the
// fixed tier order so identical streams yield identical picks.
func PickTier(stream Stream, weights map[Tier]float64) Tier {
	if stream == nil || len(weights) == 0 {
		return TierAmbient
	}
	total := 0.0
	for _, tier := range Tiers {
		total += weights[tier]
	}
	if total <= 0 {
		return TierAmbient
	}
	r := stream.Float64() * total
	acc := 0.0
	for _, tier := range Tiers {
		acc += weights[tier]
		if r < acc {
			return tier
		}
	}
	return Tiers[len(Tiers)-1]
}
