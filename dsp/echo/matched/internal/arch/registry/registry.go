// Package registry holds the matched-filter core kernels available on this
// platform. Backends register themselves from init(); the matched package
// resolves one entry per filter instance at construction.
package registry

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// AccumulatedErrorSubSampleRate is the number of taps folded into one bin of
// the accumulated-error trace.
const AccumulatedErrorSubSampleRate = 4

// SaturationLevel is the capture magnitude at or above which adaptation is
// skipped for that sample.
const SaturationLevel = 32000

// Params describes one kernel invocation for a single candidate filter.
//
// X is the render ring stored newest-first; the window for capture sample i
// starts at XStart-i (mod len(X)) and covers len(H) samples walking forward.
type Params struct {
	XStart         int
	X2SumThreshold float64
	Smoothing      float64

	X []float64
	Y []float64
	H []float64

	// AccumulatedError receives len(H)/AccumulatedErrorSubSampleRate bins of
	// partial-prediction error. Nil disables tracking.
	AccumulatedError []float64

	// Scratch is transient workspace of len(H).
	Scratch []float64
}

// Result is the outcome of one kernel invocation.
type Result struct {
	ErrorSum float64
	Updated  bool
}

// CoreFn adapts p.H against one capture sub-block.
type CoreFn func(p *Params) Result

// OpEntry is one registered kernel implementation.
type OpEntry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int
	Core      CoreFn
}

// OpRegistry stores available implementations.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the default kernel registry.
var Global = &OpRegistry{}

// Register adds an implementation entry.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority implementation supported by features.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

// ByName returns the entry registered under name, or nil.
func (r *OpRegistry) ByName(name string) *OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		if r.entries[i].Name == name {
			return &r.entries[i]
		}
	}
	return nil
}

func (r *OpRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}
