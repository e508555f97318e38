// Package rng provides the deterministic per-world random streams used by
// scene generation. Streams are derived by splitting a single global key
// with a (counter, counter) pair, so the same global seed plus the same
// (episode, world) tuple always reproduces the identical stream on every
// platform.
package rng

// Key identifies a random stream. The two halves are the split counters
// that produced it; the initial key's halves come from the global seed.
type Key struct {
	A, B uint32
}

// InitKey derives the root key from a user-supplied seed.
func InitKey(seed uint64) Key {
	h := mix64(seed)
	return Key{A: uint32(h >> 32), B: uint32(h)}
}

// Split derives an independent child key from k and the counter pair (a, b).
func Split(k Key, a, b uint32) Key {
	h := mix64(uint64(k.A)<<32 | uint64(k.B))
	h = mix64(h ^ (uint64(a)<<32 | uint64(b)))
	return Key{A: uint32(h >> 32), B: uint32(h)}
}

// Stream is a splitmix64 generator seeded from a Key.
type Stream struct {
	state uint64
}

func New(k Key) *Stream {
	return &Stream{state: uint64(k.A)<<32 | uint64(k.B)}
}

func (s *Stream) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// SampleUniform returns a float32 uniform in [0, 1).
func (s *Stream) SampleUniform() float32 {
	return float32(s.next()>>40) * (1.0 / (1 << 24))
}

// SampleI32 returns an int32 uniform in [min, max). Returns min when the
// range is empty.
func (s *Stream) SampleI32(min, max int32) int32 {
	if max <= min {
		return min
	}
	return min + int32(s.next()%uint64(max-min))
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
