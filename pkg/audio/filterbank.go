package audio

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const logEnergyFloor = 2.220446049250313e-16

// FilterbankConfig controls log filterbank extraction
type FilterbankConfig struct {
	SampleRate   int     // waveform sample rate (Hz)
	WindowLength float64 // analysis window length (seconds)
	WindowStep   float64 // hop between windows (seconds)
	NumFilters   int     // number of triangular mel filters
	FFTSize      int     // FFT length, must cover the window
	Preemphasis  float64 // preemphasis coefficient
	WindowFunc   string  // "rectangular" or "hamming"
}

// DefaultFilterbankConfig returns the standard 16 kHz speech frontend settings
func DefaultFilterbankConfig() FilterbankConfig {
	return FilterbankConfig{
		SampleRate:   16000,
		WindowLength: 0.025,
		WindowStep:   0.01,
		NumFilters:   26,
		FFTSize:      512,
		Preemphasis:  0.97,
		WindowFunc:   "rectangular",
	}
}

// LogFilterbank computes log mel-filterbank energies for a waveform.
// Returns a [T, NumFilters] matrix.
func LogFilterbank(samples []float32, cfg FilterbankConfig) ([][]float32, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.NumFilters <= 0 {
		return nil, fmt.Errorf("invalid filter count %d", cfg.NumFilters)
	}

	frameLen := int(math.Round(cfg.WindowLength * float64(cfg.SampleRate)))
	frameStep := int(math.Round(cfg.WindowStep * float64(cfg.SampleRate)))
	if frameLen <= 0 || frameStep <= 0 {
		return nil, fmt.Errorf("window length %gs / step %gs collapse at %d Hz",
			cfg.WindowLength, cfg.WindowStep, cfg.SampleRate)
	}
	if cfg.FFTSize < frameLen {
		return nil, fmt.Errorf("FFT size %d shorter than analysis window %d", cfg.FFTSize, frameLen)
	}

	signal := preemphasize(samples, cfg.Preemphasis)
	frames := frameSignal(signal, frameLen, frameStep)
	applyWindow(frames, cfg.WindowFunc)

	fbank := melFilterbank(cfg.NumFilters, cfg.FFTSize, cfg.SampleRate)
	numBins := cfg.FFTSize/2 + 1

	feats := make([][]float32, len(frames))
	for t, frame := range frames {
		padded := make([]float64, cfg.FFTSize)
		copy(padded, frame)
		spectrum := fft.FFTReal(padded)

		power := make([]float64, numBins)
		for k := 0; k < numBins; k++ {
			re := real(spectrum[k])
			im := imag(spectrum[k])
			power[k] = (re*re + im*im) / float64(cfg.FFTSize)
		}

		row := make([]float32, cfg.NumFilters)
		for m := 0; m < cfg.NumFilters; m++ {
			energy := 0.0
			for k := 0; k < numBins; k++ {
				energy += power[k] * fbank[m][k]
			}
			if energy == 0 {
				energy = logEnergyFloor
			}
			row[m] = float32(math.Log(energy))
		}
		feats[t] = row
	}

	return feats, nil
}

func preemphasize(samples []float32, coeff float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	out[0] = float64(samples[0])
	for i := 1; i < len(samples); i++ {
		out[i] = float64(samples[i]) - coeff*float64(samples[i-1])
	}
	return out
}

// frameSignal slices the signal into overlapping frames, zero-padding the tail
// so the last partial window is kept
func frameSignal(signal []float64, frameLen, frameStep int) [][]float64 {
	numFrames := 1
	if len(signal) > frameLen {
		numFrames = 1 + int(math.Ceil(float64(len(signal)-frameLen)/float64(frameStep)))
	}

	padded := make([]float64, (numFrames-1)*frameStep+frameLen)
	copy(padded, signal)

	frames := make([][]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		frame := make([]float64, frameLen)
		copy(frame, padded[t*frameStep:t*frameStep+frameLen])
		frames[t] = frame
	}
	return frames
}

func applyWindow(frames [][]float64, windowFunc string) {
	if windowFunc != "hamming" || len(frames) == 0 {
		return
	}
	coeffs := window.Hamming(len(frames[0]))
	for _, frame := range frames {
		for i := range frame {
			frame[i] *= coeffs[i]
		}
	}
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterbank builds NumFilters triangular filters over [0, SampleRate/2],
// evenly spaced on the mel scale. Shape [NumFilters, FFTSize/2+1].
func melFilterbank(numFilters, fftSize, sampleRate int) [][]float64 {
	lowMel := hzToMel(0)
	highMel := hzToMel(float64(sampleRate) / 2)

	points := make([]int, numFilters+2)
	for i := range points {
		mel := lowMel + (highMel-lowMel)*float64(i)/float64(numFilters+1)
		points[i] = int(math.Floor(float64(fftSize+1) * melToHz(mel) / float64(sampleRate)))
	}

	numBins := fftSize/2 + 1
	fbank := make([][]float64, numFilters)
	for m := 0; m < numFilters; m++ {
		filter := make([]float64, numBins)
		left, center, right := points[m], points[m+1], points[m+2]
		for k := left; k < center; k++ {
			filter[k] = float64(k-left) / float64(center-left)
		}
		for k := center; k < right; k++ {
			filter[k] = float64(right-k) / float64(right-center)
		}
		fbank[m] = filter
	}
	return fbank
}
