// Package rng provides the two seeded pseudo-random engines the dungeon
// generators depend on. Both are plain state machines: the same seed always
// yields the same sequence, which is what lets a level be re-derived from
// its seed alone.
package rng

const (
	upperMask = 0x80000000
	lowerMask = 0x7fffffff
	matrixA   = 0x9908b0df
)

// Source is anything that yields raw 32-bit values.
type Source interface {
	Uint32() uint32
}

// twister is the shared Mersenne-Twister core, parameterised by state size
// n and recurrence offset m.
type twister struct {
	state []uint32
	m     int
	index int
}

func newTwister(seed uint32, n, m int) twister {
	t := twister{state: make([]uint32, n), m: m, index: n}
	t.state[0] = seed
	for i := 1; i < n; i++ {
		prev := t.state[i-1]
		t.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	return t
}

// regenerate refills the whole state window in place.
func (t *twister) regenerate() {
	n := len(t.state)
	for k := 0; k < n; k++ {
		y := (t.state[k] & upperMask) | (t.state[(k+1)%n] & lowerMask)
		v := t.state[(k+t.m)%n] ^ (y >> 1)
		if y&1 != 0 {
			v ^= matrixA
		}
		t.state[k] = v
	}
	t.index = 0
}

func (t *twister) next() uint32 {
	if t.index >= len(t.state) {
		t.regenerate()
	}
	y := t.state[t.index]
	t.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Twister4 is the small 4-word variant (recurrence depth 3) used by the
// maze generator. Values are regenerated in batches of four.
type Twister4 struct {
	t twister
}

// NewTwister4 seeds a Twister4 from a single 32-bit value.
func NewTwister4(seed uint32) *Twister4 {
	return &Twister4{t: newTwister(seed, 4, 3)}
}

// Uint32 returns the next raw value.
func (r *Twister4) Uint32() uint32 {
	return r.t.next()
}

// Float returns the next value scaled into [0,1).
func (r *Twister4) Float() float64 {
	return float64(r.t.next()) / 4294967296.0
}

// MT19937 is the canonical 624-word Mersenne Twister used by the
// room-expansion generator.
type MT19937 struct {
	t twister
}

// NewMT19937 seeds the canonical generator the same way init_genrand does.
func NewMT19937(seed uint32) *MT19937 {
	return &MT19937{t: newTwister(seed, 624, 397)}
}

// Uint32 returns the next raw value.
func (r *MT19937) Uint32() uint32 {
	return r.t.next()
}

// Between returns value % (max-min+1) + min. Bounds are swapped first when
// given out of order.
func (r *MT19937) Between(min, max int) int {
	return Between(r, min, max)
}

// Between draws one value from src and folds it into [min,max].
func Between(src Source, min, max int) int {
	if max < min {
		min, max = max, min
	}
	span := uint32(max - min + 1)
	return int(src.Uint32()%span) + min
}

// Intn draws one value from src and folds it into [0,n). n must be positive.
func Intn(src Source, n int) int {
	if n <= 0 {
		panic("rng: Intn called with non-positive n")
	}
	return int(src.Uint32() % uint32(n))
}
