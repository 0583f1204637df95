package generic

import "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"

// Core runs the matched filter over one capture sub-block, one tap at a time.
//
// For every capture sample the prediction h·x and the window energy x·x are
// accumulated while walking the ring forward (backward in time). The taps are
// then adapted in an NLMS manner, h += smoothing*e/(x·x) * x, as long as the
// window energy exceeds the threshold and the capture sample is not saturated.
func Core(p *registry.Params) registry.Result {
	x, y, h := p.X, p.Y, p.H
	size := len(x)
	acc := p.AccumulatedError
	track := acc != nil

	if track {
		for k := range acc {
			acc[k] = 0
		}
	}

	xStart := p.XStart % size
	if xStart < 0 {
		xStart += size
	}

	var res registry.Result
	for i := range y {
		var x2, s float64
		xi := xStart
		for k := range h {
			v := x[xi]
			x2 += v * v
			s += h[k] * v
			if track && (k+1)&(registry.AccumulatedErrorSubSampleRate-1) == 0 {
				e := y[i] - s
				acc[k/registry.AccumulatedErrorSubSampleRate] += e * e
			}
			xi++
			if xi == size {
				xi = 0
			}
		}

		e := y[i] - s
		res.ErrorSum += e * e

		saturated := y[i] >= registry.SaturationLevel || y[i] <= -registry.SaturationLevel
		if x2 > p.X2SumThreshold && !saturated {
			alpha := p.Smoothing * e / x2
			xi = xStart
			for k := range h {
				h[k] += alpha * x[xi]
				xi++
				if xi == size {
					xi = 0
				}
			}
			res.Updated = true
		}

		if xStart == 0 {
			xStart = size - 1
		} else {
			xStart--
		}
	}

	return res
}
