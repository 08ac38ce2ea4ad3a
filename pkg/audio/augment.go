package audio

import (
	"math"
	"math/rand"
)

// TimeShift rotates the waveform by a uniformly random fraction of its length
// in [-maxFrac, maxFrac], with wraparound. The sample multiset is preserved.
func TimeShift(samples []float32, rng *rand.Rand, maxFrac float64) []float32 {
	if len(samples) == 0 {
		return samples
	}

	frac := (rng.Float64()*2 - 1) * maxFrac
	shift := int(math.Round(frac * float64(len(samples))))
	return roll(samples, shift)
}

// roll shifts elements right by n positions with wraparound (negative n
// shifts left)
func roll(samples []float32, n int) []float32 {
	size := len(samples)
	out := make([]float32, size)
	for i, s := range samples {
		idx := (i + n) % size
		if idx < 0 {
			idx += size
		}
		out[idx] = s
	}
	return out
}
