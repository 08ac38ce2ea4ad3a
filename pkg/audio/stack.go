package audio

// Stack concatenates every `order` consecutive feature rows into one wider
// row, zero-padding the tail so the row count divides evenly. A [T, F] input
// becomes [ceil(T/order), F*order]. Order <= 1 returns the input unchanged.
func Stack(feats [][]float32, order int) [][]float32 {
	if order <= 1 || len(feats) == 0 {
		return feats
	}

	featDim := len(feats[0])
	if rem := len(feats) % order; rem != 0 {
		padding := make([][]float32, order-rem)
		for i := range padding {
			padding[i] = make([]float32, featDim)
		}
		feats = append(feats, padding...)
	}

	stacked := make([][]float32, len(feats)/order)
	for t := range stacked {
		row := make([]float32, 0, featDim*order)
		for j := 0; j < order; j++ {
			row = append(row, feats[t*order+j]...)
		}
		stacked[t] = row
	}
	return stacked
}
