package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV encodes 16-bit PCM test fixtures
func writeWAV(t *testing.T, path string, sampleRate, numChannels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, 16, numChannels, 1)
	require.NoError(t, encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, encoder.Close())
}

func TestReadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeWAV(t, path, RequiredSampleRate, 1, []int{0, 100, -100, 32767, -32768})

	samples, rate, err := ReadWAV(path)
	require.NoError(t, err)
	assert.Equal(t, RequiredSampleRate, rate)
	assert.Equal(t, []float32{0, 100, -100, 32767, -32768}, samples)
}

func TestReadWAVStereoKeepsFirstChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	// Interleaved L/R pairs; only the left channel survives.
	writeWAV(t, path, RequiredSampleRate, 2, []int{1, -1, 2, -2, 3, -3})

	samples, _, err := ReadWAV(path)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, samples)
}

func TestReadWAVWrongSampleRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cd.wav")
	writeWAV(t, path, 44100, 1, []int{0, 1, 2})

	_, _, err := ReadWAV(path)
	require.Error(t, err)

	var mediaErr *Error
	require.True(t, errors.As(err, &mediaErr))
	assert.Equal(t, ErrCodeSampleRate, mediaErr.Code)
	assert.Equal(t, path, mediaErr.Path)
}

func TestReadWAVMissingFile(t *testing.T) {
	_, _, err := ReadWAV(filepath.Join(t.TempDir(), "nope.wav"))
	require.Error(t, err)

	var mediaErr *Error
	require.True(t, errors.As(err, &mediaErr))
	assert.Equal(t, ErrCodeMediaIO, mediaErr.Code)
}

func TestReadWAVGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a riff header"), 0o644))

	_, _, err := ReadWAV(path)
	require.Error(t, err)

	var mediaErr *Error
	require.True(t, errors.As(err, &mediaErr))
	assert.Equal(t, ErrCodeMediaIO, mediaErr.Code)
}
