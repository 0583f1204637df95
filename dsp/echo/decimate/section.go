package decimate

import "math"

// coefficients of one second-order section, a0 normalised to 1.
type coefficients struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// section is a Direct Form II Transposed biquad.
type section struct {
	coefficients

	d0, d1 float64
}

func (s *section) process(buf []float64) {
	c := s.coefficients
	d0, d1 := s.d0, s.d1
	for i, x := range buf {
		y := c.b0*x + d0
		d0 = c.b1*x - c.a1*y + d1
		d1 = c.b2*x - c.a2*y
		buf[i] = y
	}
	s.d0, s.d1 = d0, d1
}

func (s *section) reset() {
	s.d0, s.d1 = 0, 0
}

// butterworthQ returns the quality factor of pair index of an order-n
// Butterworth prototype.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	return 1 / (2 * math.Sin(theta))
}

// lowpass designs an RBJ low-pass section.
func lowpass(freq, q, sampleRate float64) coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, alpha := math.Cos(w0), math.Sin(w0)/(2*q)
	norm := 1 / (1 + alpha)
	b := (1 - cw) / 2 * norm
	return coefficients{
		b0: b,
		b1: 2 * b,
		b2: b,
		a1: -2 * cw * norm,
		a2: (1 - alpha) * norm,
	}
}

// highpass designs an RBJ high-pass section.
func highpass(freq, q, sampleRate float64) coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, alpha := math.Cos(w0), math.Sin(w0)/(2*q)
	norm := 1 / (1 + alpha)
	b := (1 + cw) / 2 * norm
	return coefficients{
		b0: b,
		b1: -2 * b,
		b2: b,
		a1: -2 * cw * norm,
		a2: (1 - alpha) * norm,
	}
}

// butterworth returns an even-order Butterworth cascade built from design.
func butterworth(design func(freq, q, sampleRate float64) coefficients, freq float64, order int, sampleRate float64) []section {
	sections := make([]section, 0, order/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, section{coefficients: design(freq, butterworthQ(order, i), sampleRate)})
	}
	return sections
}
