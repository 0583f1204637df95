package matched

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestParseOptimization(t *testing.T) {
	for o := OptimizationAuto; o <= OptimizationNEON; o++ {
		got, err := ParseOptimization(o.String())
		if err != nil || got != o {
			t.Fatalf("ParseOptimization(%q) = %v, %v", o.String(), got, err)
		}
	}
	if got, err := ParseOptimization("AVX2"); err != nil || got != OptimizationAVX2 {
		t.Fatalf("ParseOptimization is case sensitive: %v, %v", got, err)
	}
	if _, err := ParseOptimization("altivec"); !errors.Is(err, ErrUnsupportedOptimization) {
		t.Fatalf("unknown name error = %v", err)
	}
}

func TestOptimizationNoneAlwaysAvailable(t *testing.T) {
	m, err := New(DefaultConfig(), WithOptimization(OptimizationNone))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.KernelName() != "generic" {
		t.Fatalf("kernel = %q, want generic", m.KernelName())
	}
}

func TestForcedGenericRejectsSIMD(t *testing.T) {
	cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true})
	defer cpu.ResetDetection()

	for _, o := range []Optimization{OptimizationSSE2, OptimizationAVX2, OptimizationNEON} {
		if _, err := New(DefaultConfig(), WithOptimization(o)); !errors.Is(err, ErrUnsupportedOptimization) {
			t.Fatalf("%s: error = %v, want ErrUnsupportedOptimization", o, err)
		}
	}

	m := mustNew(t, DefaultConfig())
	if m.KernelName() != "generic" {
		t.Fatalf("auto kernel under ForceGeneric = %q", m.KernelName())
	}
}

func TestExplicitOptimizationSelectsNamedKernel(t *testing.T) {
	for _, o := range availableOptimizations(t) {
		if o == OptimizationAuto {
			continue
		}
		name, _ := o.kernel()
		if got := mustNew(t, DefaultConfig(), WithOptimization(o)).KernelName(); got != name {
			t.Fatalf("%s: kernel = %q, want %q", o, got, name)
		}
	}
	if _, err := lookupKernel(Optimization(42)); !errors.Is(err, ErrUnsupportedOptimization) {
		t.Fatalf("unknown optimization error = %v", err)
	}
}
