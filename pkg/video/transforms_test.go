package video

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeClip builds a T x H x W clip where every pixel encodes its position
func makeClip(numFrames, height, width int) Frames {
	clip := make(Frames, numFrames)
	for t := range clip {
		frame := make([][]float32, height)
		for y := range frame {
			frame[y] = make([]float32, width)
			for x := range frame[y] {
				frame[y][x] = float32(t*height*width + y*width + x)
			}
		}
		clip[t] = frame
	}
	return clip
}

func TestNormalize(t *testing.T) {
	clip := Frames{{{0, 127.5, 255}}}

	out, err := Normalize{Mean: 0, Std: 255}.Apply(clip, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, out[0][0][0], 1e-6)
	assert.InDelta(t, 0.5, out[0][0][1], 1e-6)
	assert.InDelta(t, 1, out[0][0][2], 1e-6)

	_, err = Normalize{Mean: 0, Std: 0}.Apply(clip, nil)
	assert.Error(t, err)
}

func TestCenterCrop(t *testing.T) {
	clip := makeClip(3, 6, 8)

	out, err := CenterCrop{Height: 4, Width: 4}.Apply(clip, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Len(t, out[0], 4)
	assert.Len(t, out[0][0], 4)

	// The window starts at ((6-4)/2, (8-4)/2) = (1, 2) in every frame.
	assert.Equal(t, clip[0][1][2], out[0][0][0])
	assert.Equal(t, clip[2][4][5], out[2][3][3])
}

func TestRandomCropClipConsistent(t *testing.T) {
	clip := makeClip(5, 10, 10)
	rng := rand.New(rand.NewSource(3))

	out, err := RandomCrop{Height: 4, Width: 4}.Apply(clip, rng)
	require.NoError(t, err)

	// Recover the offset from frame 0 and verify every frame uses the same one.
	first := out[0][0][0]
	y := int(first) / 10
	x := int(first) % 10
	for ft, frame := range out {
		for r := range frame {
			for c := range frame[r] {
				assert.Equal(t, clip[ft][y+r][x+c], frame[r][c])
			}
		}
	}
}

func TestRandomCropNilRNGStartsAtOrigin(t *testing.T) {
	clip := makeClip(2, 5, 5)

	out, err := RandomCrop{Height: 3, Width: 3}.Apply(clip, nil)
	require.NoError(t, err)
	assert.Equal(t, clip[0][0][0], out[0][0][0])
}

func TestCropSmallerThanTarget(t *testing.T) {
	clip := makeClip(1, 3, 3)

	_, err := CenterCrop{Height: 4, Width: 4}.Apply(clip, nil)
	assert.Error(t, err)
	_, err = RandomCrop{Height: 4, Width: 4}.Apply(clip, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestHorizontalFlip(t *testing.T) {
	t.Run("always", func(t *testing.T) {
		clip := Frames{{{1, 2, 3}, {4, 5, 6}}}
		out, err := HorizontalFlip{Prob: 1}.Apply(clip, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, Frames{{{3, 2, 1}, {6, 5, 4}}}, out)
	})

	t.Run("never", func(t *testing.T) {
		clip := Frames{{{1, 2, 3}}}
		out, err := HorizontalFlip{Prob: 0}.Apply(clip, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, Frames{{{1, 2, 3}}}, out)
	})

	t.Run("nil rng never flips", func(t *testing.T) {
		clip := Frames{{{1, 2, 3}}}
		out, err := HorizontalFlip{Prob: 1}.Apply(clip, nil)
		require.NoError(t, err)
		assert.Equal(t, Frames{{{1, 2, 3}}}, out)
	})
}

func TestComposeOrder(t *testing.T) {
	clip := makeClip(2, 6, 6)

	pipeline := Compose{
		Normalize{Mean: 0, Std: 2},
		CenterCrop{Height: 4, Width: 4},
		Normalize{Mean: 1, Std: 1},
	}
	out, err := pipeline.Apply(clip, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0], 4)

	// Pixel (1,1) of frame 0 crops from source (2,2): value 14, then /2, then -1.
	assert.InDelta(t, 14.0/2-1, out[0][1][1], 1e-6)
}

func TestComposeStopsOnError(t *testing.T) {
	clip := makeClip(1, 2, 2)

	pipeline := Compose{
		CenterCrop{Height: 5, Width: 5},
		Normalize{Mean: 0, Std: 255},
	}
	_, err := pipeline.Apply(clip, nil)
	assert.Error(t, err)
}
