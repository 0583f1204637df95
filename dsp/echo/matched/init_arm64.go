//go:build arm64 && !purego

package matched

import (
	_ "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/arm64/neon"
	_ "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/generic"
)
