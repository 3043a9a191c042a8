// Package dttf models the regional DT track finder output: track
// candidates addressed by (wheel, sector, bx, candidate index) and the
// track class that says which muon stations contributed to each one.
//
// Key types: Candidate, TrackClass, StationMask, Slot, Container.
//
// This package has no knowledge of trigger primitives or internal tracks;
// association happens in internal/convert.
package dttf
