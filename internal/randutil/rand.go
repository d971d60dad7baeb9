package randutil

import (
	rand "math/rand/v2"
	"unicode/utf16"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15

	// mulberryIncrement is the odd Weyl step added to the state on every draw.
	mulberryIncrement = 0x6d2b79f5

	twoPow32 = 4294967296.0
)

// Source produces uniformly distributed values in [0,1). Card generation,
// ball draws and rival progress all consume a Source so tests can swap in a
// scripted stream.
type Source interface {
	Float64() float64
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences. It is used for randomness
// that does not have to replay from a room code (batch seeds, dauber misses).
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// HashSeed folds a seed string into the initial generator state using the
// classic multiply-by-31 string hash over UTF-16 code units. Wraparound is
// implicit in uint32 arithmetic, so the result is identical on every platform.
func HashSeed(seed string) uint32 {
	var h uint32
	for _, unit := range utf16.Encode([]rune(seed)) {
		h = 31*h + uint32(unit)
	}
	return h
}

// Next advances state by one step and returns the drawn value together with
// the new state. It is the pure form of Stream.Float64.
func Next(state uint32) (float64, uint32) {
	state += mulberryIncrement
	t := state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	t ^= t >> 14
	return float64(t) / twoPow32, state
}

// Stream is a seeded Mulberry32 generator. A Stream is not safe for
// concurrent use; the owner serialises access.
type Stream struct {
	state uint32
}

// NewStream returns a generator whose sequence is fully determined by seed.
func NewStream(seed string) *Stream {
	return &Stream{state: HashSeed(seed)}
}

// Float64 returns the next value in [0,1).
func (s *Stream) Float64() float64 {
	var v float64
	v, s.state = Next(s.state)
	return v
}

// State returns the current internal state.
func (s *Stream) State() uint32 {
	return s.state
}

// IntRange returns an integer in [min,max] drawn from src.
func IntRange(src Source, min, max int) int {
	return int(src.Float64()*float64(max-min+1)) + min
}
