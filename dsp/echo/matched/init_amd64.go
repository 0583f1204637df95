//go:build amd64 && !purego

package matched

import (
	_ "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/amd64/avx2" // register AVX2 backend
	_ "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/amd64/sse2" // register SSE2 backend
	_ "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/generic"    // register generic backend
)
