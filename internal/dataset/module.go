package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/AirLabUR/MSOC/configs"
	"github.com/AirLabUR/MSOC/internal/manifest"
	"github.com/AirLabUR/MSOC/pkg/logging"
)

// Module wires the whole pipeline: it loads the manifest, partitions it
// under the configured policy, and exposes train/validation/test loaders.
// Everything is read-only after construction and safe to share.
type Module struct {
	cfg    *configs.Config
	det    DeterminismContext
	splits manifest.Splits
	train  *Dataset
	val    *Dataset
	test   *Dataset
	logger logging.Logger
}

// NewModule loads and partitions the manifest. Configuration problems are
// fatal here; nothing degrades silently.
func NewModule(cfg *configs.Config, logger logging.Logger) (*Module, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if err := configs.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rows, err := manifest.Load(filepath.Join(cfg.Data.Root, cfg.Data.Manifest))
	if err != nil {
		return nil, err
	}

	foldPath := ""
	if cfg.Data.TrainFold != "" {
		foldPath = filepath.Join(cfg.Data.Root, cfg.Data.TrainFold)
	}
	partitioner, err := manifest.NewPartitioner(cfg.Data.DatasetType, foldPath)
	if err != nil {
		return nil, err
	}

	splits, err := partitioner.Partition(rows, cfg.Data.Seed)
	if err != nil {
		return nil, err
	}

	m := &Module{
		cfg:    cfg,
		det:    DeterminismContext{BaseSeed: cfg.Data.Seed},
		splits: splits,
		train:  NewDataset(SubsetTrain, cfg.Data.Root, splits.Train, cfg, logger),
		test:   NewDataset(SubsetTest, cfg.Data.Root, splits.Test, cfg, logger),
		logger: logger.WithFields(logging.Fields{"component": "data_module"}),
	}
	if len(splits.Val) > 0 {
		m.val = NewDataset(SubsetVal, cfg.Data.Root, splits.Val, cfg, logger)
	}

	m.logger.Info("Manifest partitioned", logging.Fields{
		"dataset_type": cfg.Data.DatasetType,
		"total_rows":   len(rows),
		"train":        len(splits.Train),
		"val":          len(splits.Val),
		"test":         len(splits.Test),
		"augmentation": cfg.Data.Augmentation,
		"seed":         cfg.Data.Seed,
	})

	return m, nil
}

// Splits exposes the partitioned manifest rows
func (m *Module) Splits() manifest.Splits {
	return m.splits
}

// TrainDataset returns the training subset view
func (m *Module) TrainDataset() *Dataset {
	return m.train
}

// TrainLoader iterates training batches with seeded shuffling
func (m *Module) TrainLoader() *Loader {
	return NewLoader(m.train, m.cfg.Loader, m.det, true, m.cfg.Data.TakeTrain, m.logger)
}

// ValLoader iterates the validation stream in manifest order. The original
// partition policy carries no validation split, so validation falls back to
// the test subset there.
func (m *Module) ValLoader() *Loader {
	ds := m.val
	if ds == nil {
		ds = m.test
	}
	return NewLoader(ds, m.cfg.Loader, m.det, false, m.cfg.Data.TakeVal, m.logger)
}

// TestLoader iterates test batches in manifest order
func (m *Module) TestLoader() *Loader {
	return NewLoader(m.test, m.cfg.Loader, m.det, false, m.cfg.Data.TakeTest, m.logger)
}
