package engine

import "math/rand"

// Source supplies every random value the engine consumes. Values are
// drawn in a fixed order per command: die one, then die two, then any
// card draw. Replaying the same sequence replays the same game.
type Source interface {
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

type seededSource struct {
	r *rand.Rand
}

func (s *seededSource) Intn(n int) int { return s.r.Intn(n) }

// NewSeededSource returns a Source backed by math/rand with the given
// seed. Two sources with the same seed produce the same sequence.
func NewSeededSource(seed int64) Source {
	return &seededSource{r: rand.New(rand.NewSource(seed))}
}
