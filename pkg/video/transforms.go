package video

import (
	"fmt"
	"math/rand"
)

// Frames holds a clip as [T][H][W] float32 grayscale values.
type Frames [][][]float32

// Transform mutates or rebuilds a clip. The rng drives any stochastic
// choices; deterministic transforms ignore it.
type Transform interface {
	Apply(frames Frames, rng *rand.Rand) (Frames, error)
}

// Compose applies transforms in order
type Compose []Transform

func (c Compose) Apply(frames Frames, rng *rand.Rand) (Frames, error) {
	var err error
	for _, t := range c {
		frames, err = t.Apply(frames, rng)
		if err != nil {
			return nil, err
		}
	}
	return frames, nil
}

// Normalize shifts and scales every pixel: (x - Mean) / Std
type Normalize struct {
	Mean float32
	Std  float32
}

func (n Normalize) Apply(frames Frames, _ *rand.Rand) (Frames, error) {
	if n.Std == 0 {
		return nil, fmt.Errorf("normalize: zero std")
	}
	for _, frame := range frames {
		for _, row := range frame {
			for x := range row {
				row[x] = (row[x] - n.Mean) / n.Std
			}
		}
	}
	return frames, nil
}

// RandomCrop cuts the same randomly positioned HxW window out of every frame
// so the clip stays spatially consistent over time
type RandomCrop struct {
	Height int
	Width  int
}

func (c RandomCrop) Apply(frames Frames, rng *rand.Rand) (Frames, error) {
	maxY, maxX, err := cropRange(frames, c.Height, c.Width)
	if err != nil {
		return nil, err
	}
	y, x := 0, 0
	if rng != nil {
		y = rng.Intn(maxY + 1)
		x = rng.Intn(maxX + 1)
	}
	return crop(frames, y, x, c.Height, c.Width), nil
}

// CenterCrop cuts the central HxW window out of every frame
type CenterCrop struct {
	Height int
	Width  int
}

func (c CenterCrop) Apply(frames Frames, _ *rand.Rand) (Frames, error) {
	maxY, maxX, err := cropRange(frames, c.Height, c.Width)
	if err != nil {
		return nil, err
	}
	return crop(frames, maxY/2, maxX/2, c.Height, c.Width), nil
}

// HorizontalFlip mirrors the whole clip left-right with probability Prob
type HorizontalFlip struct {
	Prob float64
}

func (f HorizontalFlip) Apply(frames Frames, rng *rand.Rand) (Frames, error) {
	if rng == nil || rng.Float64() >= f.Prob {
		return frames, nil
	}
	for _, frame := range frames {
		for _, row := range frame {
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
	}
	return frames, nil
}

func cropRange(frames Frames, height, width int) (maxY, maxX int, err error) {
	if len(frames) == 0 {
		return 0, 0, fmt.Errorf("crop: empty clip")
	}
	srcH := len(frames[0])
	srcW := 0
	if srcH > 0 {
		srcW = len(frames[0][0])
	}
	if srcH < height || srcW < width {
		return 0, 0, fmt.Errorf("crop: clip frames %dx%d smaller than crop %dx%d", srcH, srcW, height, width)
	}
	return srcH - height, srcW - width, nil
}

func crop(frames Frames, y, x, height, width int) Frames {
	out := make(Frames, len(frames))
	for t, frame := range frames {
		cropped := make([][]float32, height)
		for r := 0; r < height; r++ {
			cropped[r] = frame[y+r][x : x+width]
		}
		out[t] = cropped
	}
	return out
}
