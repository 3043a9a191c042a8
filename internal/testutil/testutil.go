// Package testutil provides shared fixtures for converter tests: candidate
// and primitive builders and a matcher that records its queries.
package testutil

import (
	"slices"
	"sync"

	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/primitive"
)

// Candidate returns a DTTF candidate at the given slot. index is 1 or 2.
func Candidate(wheel, sector, bx, index int, class dttf.TrackClass, addrs dttf.Addresses) dttf.Candidate {
	return dttf.Candidate{
		Wheel:      wheel,
		Sector:     sector,
		BX:         bx,
		TrkTag:     index - 1,
		TrackClass: class,
		StAddr:     addrs,
		PtPacked:   uint(10 + sector),
		PhiPacked:  uint(20 * (sector + 1)),
		EtaPacked:  uint(32 + wheel),
		ChargeSign: 1 - 2*(index-1),
		Quality:    uint(3 + index),
	}
}

// DTStub returns a DT primitive. sector is 1-based.
func DTStub(wheel, sector, station, bx, segment int) primitive.TriggerPrimitive {
	return primitive.TriggerPrimitive{
		Subsystem: primitive.DT,
		Wheel:     wheel,
		Sector:    sector,
		Station:   station,
		BX:        bx,
		DT: primitive.DTData{
			SegmentNumber: segment,
			RadialAngle:   100 * station,
			BendingAngle:  -10 * station,
			QualityCode:   5,
		},
	}
}

// Query is one recorded MatchDT call.
type Query struct {
	Wheel  int
	Sector int
	Mask   dttf.StationMask
	Addrs  dttf.Addresses
	NStubs int
}

// RecordingMatcher records every query and answers from Responses keyed by
// (wheel, 1-based sector). Queries without a response return no stubs.
type RecordingMatcher struct {
	mu        sync.Mutex
	Queries   []Query
	Responses map[[2]int]primitive.Collection
	Err       error
}

// MatchDT implements matcher.Matcher.
func (m *RecordingMatcher) MatchDT(wheel, sector int, stubs primitive.Collection, mask dttf.StationMask, addrs dttf.Addresses) (primitive.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, Query{Wheel: wheel, Sector: sector, Mask: mask, Addrs: addrs, NStubs: len(stubs)})
	if m.Err != nil {
		return nil, m.Err
	}
	return slices.Clone(m.Responses[[2]int{wheel, sector}]), nil
}

// Respond registers the stubs returned for (wheel, sector).
func (m *RecordingMatcher) Respond(wheel, sector int, stubs ...primitive.TriggerPrimitive) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Responses == nil {
		m.Responses = make(map[[2]int]primitive.Collection)
	}
	m.Responses[[2]int{wheel, sector}] = stubs
}
