//go:build purego || (!amd64 && !arm64)

package matched

import (
	"errors"
	"testing"
)

func TestKernelDispatch_PureGo(t *testing.T) {
	m := mustNew(t, DefaultConfig())
	if m.KernelName() != "generic" {
		t.Fatalf("kernel = %q, want generic", m.KernelName())
	}
	for _, o := range []Optimization{OptimizationSSE2, OptimizationAVX2, OptimizationNEON} {
		if _, err := New(DefaultConfig(), WithOptimization(o)); !errors.Is(err, ErrUnsupportedOptimization) {
			t.Fatalf("%s: error = %v, want ErrUnsupportedOptimization", o, err)
		}
	}
}
