package blockwise

import (
	"testing"

	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/archtest"
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/generic"
	vgeneric "github.com/cwbudde/algo-vecmath/arch/generic"
)

var genericOps = Ops{
	Dot:        vgeneric.DotProduct,
	Scale:      vgeneric.ScaleBlock,
	AddInPlace: vgeneric.AddBlockInPlace,
	Mul:        vgeneric.MulBlock,
}

func TestCoreMatchesReference(t *testing.T) {
	archtest.RequireEquivalent(t, NewCore(genericOps), generic.Core, 1e-9)
}

func TestCoreRepeatedCallsStayAligned(t *testing.T) {
	c := archtest.Cases[2]
	pg, pw := c.Params(), c.Params()
	core := NewCore(genericOps)
	for n := 0; n < 50; n++ {
		core(pg)
		generic.Core(pw)
	}
	for k := range pg.H {
		d := pg.H[k] - pw.H[k]
		if d > 1e-9 || d < -1e-9 {
			t.Fatalf("h[%d] drifted: %g vs %g", k, pg.H[k], pw.H[k])
		}
	}
}

func BenchmarkCore(b *testing.B) {
	c := archtest.Case{RingSize: 4096, FilterLen: 512, BlockLen: 16, XStart: 100, Track: true}
	p := c.Params()
	core := NewCore(genericOps)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		core(p)
	}
}
