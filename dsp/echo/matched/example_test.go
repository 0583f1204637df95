package matched_test

import (
	"fmt"

	"github.com/cwbudde/algo-aec/dsp/echo/matched"
	"github.com/cwbudde/algo-aec/dsp/echo/render"
	"github.com/cwbudde/algo-aec/internal/testutil"
)

func ExampleMatchedFilter_Update() {
	cfg := matched.DefaultConfig()
	m, err := matched.New(cfg)
	if err != nil {
		panic(err)
	}
	ring, err := render.New(4096)
	if err != nil {
		panic(err)
	}

	// The capture is the render signal delayed by 120 samples at half level.
	x := testutil.DeterministicNoise(7, 1000, 16000)
	y := testutil.DelayedEcho(x, 120, 0.5)

	for i := 0; i+cfg.SubBlockSize <= len(x); i += cfg.SubBlockSize {
		ring.Insert(x[i : i+cfg.SubBlockSize])
		m.Update(ring, y[i:i+cfg.SubBlockSize], false)
	}

	if est, ok := m.BestLagEstimate(); ok {
		fmt.Println("lag:", est.Lag)
	}
	// Output:
	// lag: 120
}

func ExampleMatchedFilter_MaxFilterLag() {
	m, err := matched.New(matched.DefaultConfig())
	if err != nil {
		panic(err)
	}
	fmt.Println(m.MaxFilterLag())
	// Output:
	// 2432
}
