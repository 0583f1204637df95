//go:build purego || (!amd64 && !arm64)

package matched

import (
	_ "github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/generic"
)
