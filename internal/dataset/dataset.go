package dataset

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/AirLabUR/MSOC/configs"
	"github.com/AirLabUR/MSOC/internal/manifest"
	"github.com/AirLabUR/MSOC/pkg/audio"
	"github.com/AirLabUR/MSOC/pkg/logging"
	"github.com/AirLabUR/MSOC/pkg/media"
	"github.com/AirLabUR/MSOC/pkg/video"
)

// Subset names the split a dataset view iterates over
type Subset string

const (
	SubsetTrain Subset = "train"
	SubsetVal   Subset = "val"
	SubsetTest  Subset = "test"
)

const augmentProbability = 0.5

// Sample is one fully extracted training example. Video and audio sequences
// are length-aligned before the sample leaves the extractor.
type Sample struct {
	ID     int64
	File   string
	Video  video.Frames // [T, H, W]
	Audio  [][]float32  // [T, F]
	Labels Labels
}

// Dataset is a per-subset view over manifest rows that extracts samples on
// demand. It holds no mutable state after construction, so one instance is
// safely shared across extraction workers.
type Dataset struct {
	subset    Subset
	root      string
	rows      []manifest.Row
	augment   bool
	audioCfg  configs.AudioConfig
	videoCfg  configs.VideoConfig
	transform video.Compose
	logger    logging.Logger
}

// NewDataset builds a subset view. The training subset gets the stochastic
// transform pipeline (random crop, horizontal flip); every other subset gets
// the deterministic center-crop pipeline.
func NewDataset(subset Subset, root string, rows []manifest.Row, cfg *configs.Config, logger logging.Logger) *Dataset {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	crop := video.Transform(video.CenterCrop{
		Height: cfg.Video.CropHeight,
		Width:  cfg.Video.CropWidth,
	})
	transform := video.Compose{
		video.Normalize{Mean: 0, Std: 255},
		crop,
		video.Normalize{Mean: float32(cfg.Video.ImageMean), Std: float32(cfg.Video.ImageStd)},
	}
	if subset == SubsetTrain {
		transform = video.Compose{
			video.Normalize{Mean: 0, Std: 255},
			video.RandomCrop{Height: cfg.Video.CropHeight, Width: cfg.Video.CropWidth},
			video.HorizontalFlip{Prob: cfg.Video.FlipProbability},
			video.Normalize{Mean: float32(cfg.Video.ImageMean), Std: float32(cfg.Video.ImageStd)},
		}
	}

	return &Dataset{
		subset:    subset,
		root:      root,
		rows:      rows,
		augment:   cfg.Data.Augmentation,
		audioCfg:  cfg.Audio,
		videoCfg:  cfg.Video,
		transform: transform,
		logger: logger.WithFields(logging.Fields{
			"component": "dataset",
			"subset":    string(subset),
		}),
	}
}

// Subset returns the split this view iterates over
func (d *Dataset) Subset() Subset {
	return d.subset
}

// Len returns the number of rows in this subset
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Row returns the manifest row backing one index
func (d *Dataset) Row(index int) manifest.Row {
	return d.rows[index]
}

// At extracts the sample at one index: decoded and transformed video frames,
// stacked log-filterbank audio, and all label views. Any media failure is
// fatal for the sample and propagates; skipping would silently desynchronize
// batch composition downstream.
func (d *Dataset) At(ctx context.Context, index int, rng *rand.Rand) (*Sample, error) {
	if index < 0 || index >= len(d.rows) {
		return nil, fmt.Errorf("sample index %d out of range [0, %d)", index, len(d.rows))
	}
	row := d.rows[index]

	videoFeats, err := d.extractVideo(ctx, row, rng)
	if err != nil {
		return nil, err
	}

	audioFeats, wasAugmented, err := d.extractAudio(row, rng)
	if err != nil {
		return nil, err
	}

	audioFeats, err = alignToVideo(audioFeats, len(videoFeats), row.File())
	if err != nil {
		return nil, err
	}

	audio.LayerNorm(audioFeats)

	return &Sample{
		ID:     int64(index),
		File:   row.File(),
		Video:  videoFeats,
		Audio:  audioFeats,
		Labels: DeriveLabels(row, wasAugmented),
	}, nil
}

func (d *Dataset) extractVideo(ctx context.Context, row manifest.Row, rng *rand.Rand) (video.Frames, error) {
	path := row.VideoPath(d.root)
	frames, err := media.DecodeVideo(ctx, path, d.videoCfg.ScaleFactor)
	if err != nil {
		return nil, err
	}

	transformed, err := d.transform.Apply(frames, rng)
	if err != nil {
		return nil, media.NewError(media.ErrCodeDecoding, path, "frame transform failed", err)
	}
	return transformed, nil
}

func (d *Dataset) extractAudio(row manifest.Row, rng *rand.Rand) ([][]float32, bool, error) {
	path := row.AudioPath(d.root)
	samples, _, err := media.ReadWAV(path)
	if err != nil {
		return nil, false, err
	}

	wasAugmented := false
	if d.augment && d.subset == SubsetTrain && rng != nil && rng.Float64() < augmentProbability {
		samples = audio.TimeShift(samples, rng, d.audioCfg.MaxShiftFraction)
		wasAugmented = true
	}

	feats, err := audio.LogFilterbank(samples, audio.FilterbankConfig{
		SampleRate:   d.audioCfg.SampleRate,
		WindowLength: d.audioCfg.WindowLength,
		WindowStep:   d.audioCfg.WindowStep,
		NumFilters:   d.audioCfg.NumFilters,
		FFTSize:      d.audioCfg.FFTSize,
		Preemphasis:  d.audioCfg.Preemphasis,
		WindowFunc:   d.audioCfg.WindowFunction,
	})
	if err != nil {
		return nil, false, media.NewError(media.ErrCodeDecoding, path, "filterbank extraction failed", err)
	}

	return audio.Stack(feats, d.audioCfg.StackOrder), wasAugmented, nil
}

// alignToVideo makes the audio sequence exactly as long as the video
// sequence: truncate a longer audio track, zero-pad a shorter one. Video is
// the alignment reference.
func alignToVideo(audioFeats [][]float32, videoLen int, file string) ([][]float32, error) {
	diff := len(audioFeats) - videoLen
	switch {
	case diff > 0:
		audioFeats = audioFeats[:videoLen]
	case diff < 0:
		featDim := 0
		if len(audioFeats) > 0 {
			featDim = len(audioFeats[0])
		}
		for i := 0; i < -diff; i++ {
			audioFeats = append(audioFeats, make([]float32, featDim))
		}
	}

	if len(audioFeats) != videoLen {
		// Post-condition of the branches above; reaching this is a logic bug.
		return nil, media.NewError(media.ErrCodeAlignment, file,
			fmt.Sprintf("modalities misaligned after alignment: audio %d, video %d", len(audioFeats), videoLen), nil)
	}
	return audioFeats, nil
}
