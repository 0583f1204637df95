package matched

// MaxSquarePeakIndex returns the index of the element of h with the largest
// square. Ties resolve to the lowest index; an empty or all-zero h yields 0.
func MaxSquarePeakIndex(h []float64) int {
	peak := 0
	maxSq := -1.0
	for k, v := range h {
		if sq := v * v; sq > maxSq {
			maxSq = sq
			peak = k
		}
	}
	return peak
}
