package dataset

import (
	"fmt"
	"math/rand"

	"gorgonia.org/tensor"
)

// Batch is one collated training batch. Audio is laid out [B, F, T], video
// [B, C, T, H, W], and the padding mask [B, T] is shared by both modalities.
// Batches are immutable once built.
type Batch struct {
	IDs   []int64
	Files []string

	Audio *tensor.Dense
	Video *tensor.Dense

	// PaddingMask marks time positions holding filler rather than data
	PaddingMask [][]bool

	VideoLabels      []int64
	AudioLabels      []int64
	CombinedLabels   []int64
	MethodLabels     []int64
	CrossModalLabels []int64
	SubgroupLabels   []int64
}

// Len returns the number of samples in the batch
func (b *Batch) Len() int {
	return len(b.IDs)
}

// CollateOptions control how variable-length samples become fixed tensors
type CollateOptions struct {
	// MaxSampleSize caps the time dimension of any batch
	MaxSampleSize int
	// PadAudio right-pads short samples to the longest in the batch instead
	// of shrinking everything to the shortest
	PadAudio bool
	// RandomCrop picks a random start offset when cropping long samples;
	// disabled means every crop starts at 0
	RandomCrop bool
	// RNG drives random crop starts; owned by the orchestrator, not workers
	RNG *rand.Rand
}

// Collate groups samples into one padded or cropped batch. The crop start
// chosen for the audio of a sample is reused for its video so the modalities
// stay synchronized. Samples without an identifier are dropped.
func Collate(samples []*Sample, opts CollateOptions) (*Batch, error) {
	kept := samples[:0:0]
	for _, s := range samples {
		if s != nil && s.File != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return &Batch{}, nil
	}

	hasAudio := kept[0].Audio != nil
	hasVideo := kept[0].Video != nil
	if !hasAudio && !hasVideo {
		return nil, fmt.Errorf("collate: batch has neither audio nor video")
	}

	lengths := make([]int, len(kept))
	for i, s := range kept {
		if hasAudio {
			lengths[i] = len(s.Audio)
		} else {
			lengths[i] = len(s.Video)
		}
	}

	target := lengths[0]
	for _, n := range lengths[1:] {
		if opts.PadAudio && n > target {
			target = n
		} else if !opts.PadAudio && n < target {
			target = n
		}
	}
	if opts.MaxSampleSize > 0 && target > opts.MaxSampleSize {
		target = opts.MaxSampleSize
	}

	batch := &Batch{
		IDs:         make([]int64, len(kept)),
		Files:       make([]string, len(kept)),
		PaddingMask: newMask(len(kept), target),
	}
	for i, s := range kept {
		batch.IDs[i] = s.ID
		batch.Files[i] = s.File
		batch.VideoLabels = append(batch.VideoLabels, s.Labels.Video)
		batch.AudioLabels = append(batch.AudioLabels, s.Labels.Audio)
		batch.CombinedLabels = append(batch.CombinedLabels, s.Labels.Combined)
		batch.MethodLabels = append(batch.MethodLabels, s.Labels.Method)
		batch.CrossModalLabels = append(batch.CrossModalLabels, s.Labels.CrossModal)
		batch.SubgroupLabels = append(batch.SubgroupLabels, s.Labels.Subgroup)
	}

	// Audio picks the start offsets; video reuses them.
	starts := make([]int, len(kept))
	var err error
	if hasAudio {
		batch.Audio, err = collateAudio(kept, target, opts, starts, batch.PaddingMask)
		if err != nil {
			return nil, err
		}
	}
	if hasVideo {
		batch.Video, err = collateVideo(kept, target, opts, hasAudio, starts, batch.PaddingMask)
		if err != nil {
			return nil, err
		}
	}

	return batch, nil
}

// collateAudio assembles the [B, F, T] audio tensor, choosing a crop start
// per sample and recording padded positions in the mask
func collateAudio(samples []*Sample, target int, opts CollateOptions, starts []int, mask [][]bool) (*tensor.Dense, error) {
	featDim := 0
	if len(samples[0].Audio) > 0 {
		featDim = len(samples[0].Audio[0])
	}

	data := make([]float32, len(samples)*featDim*target)
	for i, s := range samples {
		diff := len(s.Audio) - target
		switch {
		case diff < 0:
			if !opts.PadAudio {
				// Unreachable when target is the batch minimum; a hit means
				// the target computation is broken.
				return nil, fmt.Errorf("collate: sample %s shorter (%d) than target %d without padding enabled",
					s.File, len(s.Audio), target)
			}
			for t := target + diff; t < target; t++ {
				mask[i][t] = true
			}
		case diff > 0:
			if opts.RandomCrop && opts.RNG != nil {
				starts[i] = opts.RNG.Intn(diff + 1)
			}
		}

		for t := 0; t < target && t < len(s.Audio); t++ {
			row := s.Audio[starts[i]+t]
			if len(row) != featDim {
				return nil, fmt.Errorf("collate: sample %s audio feature dim %d, batch expects %d",
					s.File, len(row), featDim)
			}
			for f, v := range row {
				data[(i*featDim+f)*target+t] = v
			}
		}
	}

	return tensor.New(tensor.WithShape(len(samples), featDim, target), tensor.WithBacking(data)), nil
}

// collateVideo assembles the [B, C, T, H, W] video tensor reusing the audio
// crop starts. With no audio in the batch it owns start selection and the
// padding mask instead.
func collateVideo(samples []*Sample, target int, opts CollateOptions, startsKnown bool, starts []int, mask [][]bool) (*tensor.Dense, error) {
	height, width := 0, 0
	if len(samples[0].Video) > 0 {
		height = len(samples[0].Video[0])
		if height > 0 {
			width = len(samples[0].Video[0][0])
		}
	}

	data := make([]float32, len(samples)*target*height*width)
	for i, s := range samples {
		diff := len(s.Video) - target
		if diff < 0 {
			if !opts.PadAudio {
				return nil, fmt.Errorf("collate: sample %s shorter (%d) than target %d without padding enabled",
					s.File, len(s.Video), target)
			}
			if !startsKnown {
				for t := target + diff; t < target; t++ {
					mask[i][t] = true
				}
			}
		} else if diff > 0 && !startsKnown && opts.RandomCrop && opts.RNG != nil {
			starts[i] = opts.RNG.Intn(diff + 1)
		}

		for t := 0; t < target && t < len(s.Video); t++ {
			frame := s.Video[starts[i]+t]
			if len(frame) != height {
				return nil, fmt.Errorf("collate: sample %s frame height %d, batch expects %d",
					s.File, len(frame), height)
			}
			for y, row := range frame {
				for x, v := range row {
					data[((i*target+t)*height+y)*width+x] = v
				}
			}
		}
	}

	return tensor.New(tensor.WithShape(len(samples), 1, target, height, width), tensor.WithBacking(data)), nil
}

func newMask(batch, target int) [][]bool {
	mask := make([][]bool, batch)
	for i := range mask {
		mask[i] = make([]bool, target)
	}
	return mask
}
