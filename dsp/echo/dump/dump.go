// Package dump provides sinks for the named diagnostic arrays emitted by the
// echo estimators.
package dump

import (
	"sort"
	"sync"
)

// Nop discards everything.
type Nop struct{}

// DumpRaw implements the dumper interface.
func (Nop) DumpRaw(string, []float64) {}

// Recorder keeps a copy of the latest values per name and counts calls.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	latest map[string][]float64
	calls  map[string]int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		latest: make(map[string][]float64),
		calls:  make(map[string]int),
	}
}

// DumpRaw stores a copy of values under name, reusing the previous buffer
// when the length is unchanged.
func (r *Recorder) DumpRaw(name string, values []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := r.latest[name]
	if len(buf) != len(values) {
		buf = make([]float64, len(values))
		r.latest[name] = buf
	}
	copy(buf, values)
	r.calls[name]++
}

// Latest returns a copy of the last values dumped under name.
func (r *Recorder) Latest(name string) ([]float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.latest[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), buf...), true
}

// Calls returns how often name was dumped.
func (r *Recorder) Calls(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

// Names returns the dumped names in sorted order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.latest))
	for name := range r.latest {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.latest)
	clear(r.calls)
}
