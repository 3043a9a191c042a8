// Package matcher is the boundary between a DTTF candidate and the
// trigger primitives that built it. The converter only depends on the
// Matcher interface; DTSegmentMatcher is the reference implementation.
package matcher
