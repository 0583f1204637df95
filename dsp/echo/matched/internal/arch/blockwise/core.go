// Package blockwise implements the matched-filter kernel on top of block
// vector operations. SIMD backends supply their own Ops; the window for each
// capture sample is split at the ring boundary so every operation runs on
// contiguous memory.
package blockwise

import (
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
	"github.com/cwbudde/algo-aec/dsp/echo/render"
)

// Ops are the block primitives a backend provides.
type Ops struct {
	Dot        func(a, b []float64) float64
	Scale      func(dst, src []float64, scale float64)
	AddInPlace func(dst, src []float64)
	Mul        func(dst, a, b []float64)
}

// NewCore returns a kernel bound to ops.
func NewCore(ops Ops) registry.CoreFn {
	return func(p *registry.Params) registry.Result {
		return core(&ops, p)
	}
}

func core(ops *Ops, p *registry.Params) registry.Result {
	x, y, h, scratch := p.X, p.Y, p.H, p.Scratch
	n := len(h)
	acc := p.AccumulatedError
	track := acc != nil

	if track {
		for k := range acc {
			acc[k] = 0
		}
	}

	xStart := p.XStart
	var res registry.Result
	for i := range y {
		v := render.Window(x, xStart-i, n)
		split := len(v.Head)
		hHead, hTail := h[:split], h[split:]

		var s float64
		if track {
			ops.Mul(scratch[:split], hHead, v.Head)
			if len(v.Tail) > 0 {
				ops.Mul(scratch[split:n], hTail, v.Tail)
			}
			k := 0
			for j := range acc {
				s += scratch[k] + scratch[k+1] + scratch[k+2] + scratch[k+3]
				e := y[i] - s
				acc[j] += e * e
				k += registry.AccumulatedErrorSubSampleRate
			}
			for ; k < n; k++ {
				s += scratch[k]
			}
		} else {
			s = ops.Dot(hHead, v.Head) + ops.Dot(hTail, v.Tail)
		}
		x2 := ops.Dot(v.Head, v.Head) + ops.Dot(v.Tail, v.Tail)

		e := y[i] - s
		res.ErrorSum += e * e

		saturated := y[i] >= registry.SaturationLevel || y[i] <= -registry.SaturationLevel
		if x2 > p.X2SumThreshold && !saturated {
			alpha := p.Smoothing * e / x2
			ops.Scale(scratch[:split], v.Head, alpha)
			ops.AddInPlace(hHead, scratch[:split])
			if len(v.Tail) > 0 {
				ops.Scale(scratch[split:n], v.Tail, alpha)
				ops.AddInPlace(hTail, scratch[split:n])
			}
			res.Updated = true
		}
	}

	return res
}
