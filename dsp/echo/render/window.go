package render

// View is a span of a circular buffer split at the wrap point. Head holds the
// samples up to the end of the ring, Tail the remainder taken from its start.
// Tail is empty when the span does not wrap.
type View struct {
	Head []float64
	Tail []float64
}

// Window returns the n samples of x starting at start, walking forward with
// wraparound. start may be any integer; it is reduced modulo len(x).
// Window panics if n exceeds len(x).
func Window(x []float64, start, n int) View {
	size := len(x)
	if n > size {
		panic("render: window longer than buffer")
	}
	if n <= 0 {
		return View{}
	}

	start %= size
	if start < 0 {
		start += size
	}

	if start+n <= size {
		return View{Head: x[start : start+n]}
	}
	return View{Head: x[start:], Tail: x[:n-(size-start)]}
}

// Len returns the number of samples in the view.
func (v View) Len() int {
	return len(v.Head) + len(v.Tail)
}

// At returns the k-th sample of the view.
func (v View) At(k int) float64 {
	if k < len(v.Head) {
		return v.Head[k]
	}
	return v.Tail[k-len(v.Head)]
}

// Set writes the k-th sample of the view.
func (v View) Set(k int, value float64) {
	if k < len(v.Head) {
		v.Head[k] = value
		return
	}
	v.Tail[k-len(v.Head)] = value
}

// CopyTo copies the view into dst and returns the number of samples copied.
func (v View) CopyTo(dst []float64) int {
	n := copy(dst, v.Head)
	return n + copy(dst[n:], v.Tail)
}
