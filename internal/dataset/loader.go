package dataset

import (
	"context"
	"math/rand"
	"sync"

	"github.com/AirLabUR/MSOC/configs"
	"github.com/AirLabUR/MSOC/pkg/logging"
)

// Loader iterates a dataset in collated batches. Sample extraction runs on a
// worker pool; batch composition and order depend only on the seeded
// permutation, never on worker scheduling. Workers are assigned indices by
// their position in the epoch sequence, so each worker consumes its derived
// generator identically across runs.
type Loader struct {
	dataset *Dataset
	cfg     configs.LoaderConfig
	det     DeterminismContext
	shuffle bool
	take    int
	logger  logging.Logger
}

// NewLoader wraps a dataset view. A positive take caps the number of rows
// iterated; shuffle enables the seeded epoch permutation.
func NewLoader(ds *Dataset, cfg configs.LoaderConfig, det DeterminismContext, shuffle bool, take int, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Loader{
		dataset: ds,
		cfg:     cfg,
		det:     det,
		shuffle: shuffle,
		take:    take,
		logger: logger.WithFields(logging.Fields{
			"component": "loader",
			"subset":    string(ds.Subset()),
		}),
	}
}

// Len returns the number of samples iterated per epoch
func (l *Loader) Len() int {
	n := l.dataset.Len()
	if l.take > 0 && l.take < n {
		n = l.take
	}
	return n
}

// NumBatches returns the batch count per epoch; the final partial batch
// counts
func (l *Loader) NumBatches() int {
	n := l.Len()
	if n == 0 {
		return 0
	}
	return (n + l.cfg.BatchSize - 1) / l.cfg.BatchSize
}

// ForEachBatch runs one epoch, invoking fn for every collated batch in
// order. Extraction failures abort the epoch immediately; there are no
// retries and no silent skips.
func (l *Loader) ForEachBatch(ctx context.Context, epoch int, fn func(*Batch) error) error {
	n := l.Len()
	if n == 0 {
		return nil
	}

	// One generator drives the epoch: the permutation first, then any
	// random crop starts during collation.
	rng := rand.New(rand.NewSource(l.det.EpochSeed(epoch)))
	indices := make([]int, n)
	if l.shuffle {
		copy(indices, rng.Perm(n))
	} else {
		for i := range indices {
			indices[i] = i
		}
	}

	numWorkers := l.cfg.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	workerRNGs := make([]*rand.Rand, numWorkers)
	for w := range workerRNGs {
		workerRNGs[w] = l.det.WorkerGenerator(w)
	}

	l.logger.Debug("Starting epoch", logging.Fields{
		"epoch":       epoch,
		"samples":     n,
		"batches":     l.NumBatches(),
		"num_workers": numWorkers,
		"shuffle":     l.shuffle,
	})

	collateOpts := CollateOptions{
		MaxSampleSize: l.cfg.MaxSampleSize,
		PadAudio:      l.cfg.PadAudio,
		RandomCrop:    l.cfg.RandomCrop,
		RNG:           rng,
	}

	for batchStart := 0; batchStart < n; batchStart += l.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		batchEnd := batchStart + l.cfg.BatchSize
		if batchEnd > n {
			batchEnd = n
		}

		samples, err := l.extractBatch(ctx, indices[batchStart:batchEnd], batchStart, workerRNGs)
		if err != nil {
			return err
		}

		batch, err := Collate(samples, collateOpts)
		if err != nil {
			return err
		}

		if err := fn(batch); err != nil {
			return err
		}
	}

	return nil
}

// extractBatch runs the feature extractor for one batch of indices in
// parallel. Position p in the epoch sequence always goes to worker
// p % numWorkers, keeping each worker's generator stream stable.
func (l *Loader) extractBatch(ctx context.Context, indices []int, offset int, workerRNGs []*rand.Rand) ([]*Sample, error) {
	samples := make([]*Sample, len(indices))
	errs := make([]error, len(workerRNGs))

	var wg sync.WaitGroup
	for w := range workerRNGs {
		first := ((w-offset)%len(workerRNGs) + len(workerRNGs)) % len(workerRNGs)

		wg.Add(1)
		go func(worker, first int) {
			defer wg.Done()
			for pos := first; pos < len(indices); pos += len(workerRNGs) {
				sample, err := l.dataset.At(ctx, indices[pos], workerRNGs[worker])
				if err != nil {
					errs[worker] = err
					return
				}
				samples[pos] = sample
			}
		}(w, first)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return samples, nil
}
