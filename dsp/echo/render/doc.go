// Package render provides the downsampled render (loudspeaker) history used by
// echo-path delay estimation.
//
// A [Buffer] stores samples newest-first: every [Buffer.Insert] moves the write
// index backward and stores the block time-reversed, so walking forward from any
// index walks backward in time. [Window] splits such a walk into at most two
// contiguous slices so kernels never have to apply modulo arithmetic per tap.
package render
