// Package matched estimates the echo-path delay between a downsampled render
// (loudspeaker) signal and a capture (microphone) signal.
//
// A [MatchedFilter] owns a bank of adaptive FIR filters, each covering a
// window of candidate lags that overlaps its neighbours. Every call to
// [MatchedFilter.Update] adapts all filters against one capture sub-block
// using a normalised LMS step and ranks them by residual error. The filter
// that explains the capture best, and keeps doing so across consecutive
// calls, provides the reported [LagEstimate]: the position of its largest
// tap plus the filter's offset into the render history.
//
// When pre-echo detection is enabled the winning filter also tracks how the
// prediction error falls off along its taps. An early region of low error
// ahead of the main peak is reported as the pre-echo lag.
//
// The inner kernel has a portable implementation and SSE2, AVX2 and NEON
// variants, selected once per instance from the detected CPU features or an
// explicit [Optimization].
package matched
