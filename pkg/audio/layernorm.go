package audio

import "math"

const layerNormEps = 1e-5

// LayerNorm normalizes each feature row to zero mean and unit variance over
// the feature axis, in place.
func LayerNorm(feats [][]float32) {
	for _, row := range feats {
		if len(row) == 0 {
			continue
		}

		mean := 0.0
		for _, v := range row {
			mean += float64(v)
		}
		mean /= float64(len(row))

		variance := 0.0
		for _, v := range row {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(len(row))

		scale := 1 / math.Sqrt(variance+layerNormEps)
		for i, v := range row {
			row[i] = float32((float64(v) - mean) * scale)
		}
	}
}
