// Package generic provides the portable scalar matched-filter kernel. It is
// always registered and serves as the reference for the SIMD backends.
package generic

import (
	"github.com/cwbudde/algo-aec/dsp/echo/matched/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Core:      Core,
	})
}
