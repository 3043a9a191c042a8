// Package convert turns DTTF track candidates into internal tracks with
// their matched trigger primitives.
//
// One call to Converter.Convert is one processing cycle: the fixed slot
// space (wheel, sector, bx, candidate index) is walked in order, every
// present candidate is assembled into exactly one track, and the tracks
// are returned in enumeration order. Cycles share no state.
//
// This package is the composition point for dttf, primitive, matcher and
// track; none of those import convert.
package convert
