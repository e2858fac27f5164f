// Package coin derives the per-round random choices of the symmetry breaker.
//
// Every value is a pure function of (seed, round, node id). Any replica, retry
// or neighbour recomputes the same flip without shared generator state.
package coin

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// Side is the orientation a node draws for one round.
type Side uint8

const (
	Down Side = iota
	Up
)

func (s Side) String() string {
	if s == Up {
		return "up"
	}
	return "down"
}

// Flipper yields the Up/Down side a node draws in a round.
type Flipper interface {
	Flip(round int, id string) Side
}

// salt keeps the side coin apart from any other use of the same seed.
const salt byte = 0x5a

// Murmur is the production Flipper, keyed by a global seed.
type Murmur struct {
	Seed int64
}

func New(seed int64) Murmur { return Murmur{Seed: seed} }

func (m Murmur) Flip(round int, id string) Side {
	if m.hash(round, id)>>63 == 1 {
		return Up
	}
	return Down
}

// hash mixes seed, round, salt and id into one murmur3 token.
func (m Murmur) hash(round int, id string) uint64 {
	var hdr [17]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(m.Seed))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(round))
	hdr[16] = salt
	h := murmur3.New64()
	_, _ = h.Write(hdr[:])
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

// Fixed is a Flipper that returns predetermined sides; ids missing from
// Sides get DefaultSide. Used to drive adversarial orientations in tests and
// replays.
type Fixed struct {
	Sides       map[string]Side
	DefaultSide Side
}

func (f Fixed) Flip(_ int, id string) Side {
	if s, ok := f.Sides[id]; ok {
		return s
	}
	return f.DefaultSide
}
