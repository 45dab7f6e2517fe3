package generator

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/warp/retail-datagen/calendar"
)

// Stream identifiers keep the reference tables and every simulated day on
// independent random sequences derived from the same run seed.
const (
	streamPromotions  uint64 = 0x70726f6d6f
	streamStoreEvents uint64 = 0x6576656e7473
	streamDayBase     uint64 = 1 << 40
)

// Stream is an explicit random source. It is not safe for concurrent use;
// each goroutine owns its own Stream.
type Stream struct {
	r *rand.Rand
}

// NewStream returns the stream identified by (seed, id).
func NewStream(seed int64, id uint64) *Stream {
	return &Stream{r: rand.New(rand.NewPCG(uint64(seed), id))}
}

// DayStream returns the stream for simulating day d. It depends only on the
// seed and the date, so the output of a day does not depend on which worker
// runs it or in which order.
func DayStream(seed int64, d calendar.Date) *Stream {
	return NewStream(seed, streamDayBase+uint64(d.Ordinal()))
}

// NewSeed draws a high-entropy seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]))
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}

// Uniform returns a + (b-a)*u. Bounds may be given in either order.
func (s *Stream) Uniform(a, b float64) float64 {
	return a + (b-a)*s.r.Float64()
}

// Normal returns a draw from N(mean, stddev²).
func (s *Stream) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.r.NormFloat64()
}

// IntRange returns an integer in [lo, hi], both inclusive.
func (s *Stream) IntRange(lo, hi int) int {
	return lo + s.r.IntN(hi-lo+1)
}

// Chance returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Sample picks k distinct indices from [0, n) without replacement, in draw
// order.
func (s *Stream) Sample(n, k int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + s.r.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
