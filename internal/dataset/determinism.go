package dataset

import "math/rand"

// DeterminismContext owns every seed used by the pipeline. All generators
// derive from the base seed through pure arithmetic, so runs with the same
// seed reproduce the same shuffles and augmentations regardless of worker
// scheduling. No package-level generator state exists anywhere.
type DeterminismContext struct {
	BaseSeed int64
}

// seedStride is the 64-bit golden ratio constant, reinterpreted as int64
const seedStride int64 = -0x61C8864680B583EB

// Generator returns a fresh generator seeded with the base seed
func (d DeterminismContext) Generator() *rand.Rand {
	return rand.New(rand.NewSource(d.BaseSeed))
}

// WorkerSeed derives the seed for one extraction worker
func (d DeterminismContext) WorkerSeed(worker int) int64 {
	return d.BaseSeed + int64(worker+1)*seedStride
}

// WorkerGenerator returns a fresh generator for one extraction worker
func (d DeterminismContext) WorkerGenerator(worker int) *rand.Rand {
	return rand.New(rand.NewSource(d.WorkerSeed(worker)))
}

// EpochSeed derives the shuffle seed for one epoch so every epoch gets a
// distinct but reproducible permutation
func (d DeterminismContext) EpochSeed(epoch int) int64 {
	return d.BaseSeed ^ int64(epoch)*seedStride
}
