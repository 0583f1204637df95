package matched

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Optimization selects the kernel variant used by a MatchedFilter.
type Optimization int

const (
	// OptimizationAuto picks the fastest kernel the CPU supports.
	OptimizationAuto Optimization = iota
	// OptimizationNone forces the portable kernel.
	OptimizationNone
	// OptimizationSSE2 requests the SSE2 kernel.
	OptimizationSSE2
	// OptimizationAVX2 requests the AVX2 kernel.
	OptimizationAVX2
	// OptimizationNEON requests the NEON kernel.
	OptimizationNEON
)

func (o Optimization) String() string {
	switch o {
	case OptimizationAuto:
		return "auto"
	case OptimizationNone:
		return "none"
	case OptimizationSSE2:
		return "sse2"
	case OptimizationAVX2:
		return "avx2"
	case OptimizationNEON:
		return "neon"
	default:
		return fmt.Sprintf("Optimization(%d)", int(o))
	}
}

// ParseOptimization maps a name as printed by String back to an Optimization.
func ParseOptimization(s string) (Optimization, error) {
	for o := OptimizationAuto; o <= OptimizationNEON; o++ {
		if strings.EqualFold(s, o.String()) {
			return o, nil
		}
	}
	return OptimizationAuto, fmt.Errorf("%w: unknown name %q", ErrUnsupportedOptimization, s)
}

// kernel returns the registered kernel name and SIMD level o asks for.
// Auto has no fixed kernel.
func (o Optimization) kernel() (string, cpu.SIMDLevel) {
	switch o {
	case OptimizationNone:
		return "generic", cpu.SIMDNone
	case OptimizationSSE2:
		return "sse2", cpu.SIMDSSE2
	case OptimizationAVX2:
		return "avx2", cpu.SIMDAVX2
	case OptimizationNEON:
		return "neon", cpu.SIMDNEON
	default:
		return "", cpu.SIMDNone
	}
}

// lookupKernel resolves o against the registered kernels. Auto takes the
// best kernel for the detected CPU; an explicit choice must be both supported
// by the CPU and built into this binary.
func lookupKernel(o Optimization) (*registry.OpEntry, error) {
	detected := cpu.DetectFeatures()
	if o == OptimizationAuto {
		entry := registry.Global.Lookup(detected)
		if entry == nil {
			panic("matched: no kernel registered (missing generic fallback?)")
		}
		return entry, nil
	}

	name, level := o.kernel()
	if name == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOptimization, o)
	}
	if !cpu.Supports(detected, level) {
		return nil, fmt.Errorf("%w: %s not supported by this CPU", ErrUnsupportedOptimization, o)
	}
	entry := registry.Global.ByName(name)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s not built in", ErrUnsupportedOptimization, o)
	}
	return entry, nil
}
