package chip8

import "math/rand"

/// RandomSource supplies the bytes used by RND. The VM never touches a
/// global generator so tests can inject a predictable one.
///
type RandomSource interface {
	Byte() byte
}

type randSource struct {
	r *rand.Rand
}

/// NewRandomSource returns a math/rand backed source with the given seed.
///
func NewRandomSource(seed int64) RandomSource {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Byte() byte {
	return byte(s.r.Intn(256))
}
