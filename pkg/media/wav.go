package media

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// RequiredSampleRate is the only sample rate the acoustic frontend accepts.
// The filterbank windowing constants assume it; resample upstream if needed.
const RequiredSampleRate = 16000

// ReadWAV decodes a waveform file into raw float32 samples.
// Multi-channel files are reduced to their first channel before the
// sample-rate check. Amplitudes keep their integer PCM scale.
func ReadWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, NewError(ErrCodeMediaIO, path, "failed to open waveform", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, NewError(ErrCodeMediaIO, path, "not a valid WAV file", nil)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, NewError(ErrCodeMediaIO, path, "failed to read PCM data", err)
	}

	sampleRate := buf.Format.SampleRate
	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		return nil, 0, NewError(ErrCodeMediaIO, path, "waveform has no channels", nil)
	}

	samples := make([]float32, len(buf.Data)/numChannels)
	for i := range samples {
		samples[i] = float32(buf.Data[i*numChannels])
	}

	if sampleRate != RequiredSampleRate {
		return nil, 0, NewError(ErrCodeSampleRate, path,
			fmt.Sprintf("expected %d Hz, got %d Hz", RequiredSampleRate, sampleRate), nil)
	}

	return samples, sampleRate, nil
}
