package matcher

import (
	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/primitive"
)

// Matcher finds the primitives belonging to a DT track candidate.
//
// sector is 1-based. Only stations set in mask are meaningful in addrs.
// The returned order is the matcher's own and callers keep it as-is.
type Matcher interface {
	MatchDT(wheel, sector int, stubs primitive.Collection, mask dttf.StationMask, addrs dttf.Addresses) (primitive.Collection, error)
}

// Func adapts a plain function to Matcher.
type Func func(wheel, sector int, stubs primitive.Collection, mask dttf.StationMask, addrs dttf.Addresses) (primitive.Collection, error)

// MatchDT calls f.
func (f Func) MatchDT(wheel, sector int, stubs primitive.Collection, mask dttf.StationMask, addrs dttf.Addresses) (primitive.Collection, error) {
	return f(wheel, sector, stubs, mask, addrs)
}

// DTSegmentMatcher selects DT primitives in the same wheel and sector whose
// station is in the mask and whose segment number equals the candidate's
// address at that station. Results keep collection order, so a station with
// several equal-address segments contributes all of them.
type DTSegmentMatcher struct{}

// MatchDT implements Matcher.
func (DTSegmentMatcher) MatchDT(wheel, sector int, stubs primitive.Collection, mask dttf.StationMask, addrs dttf.Addresses) (primitive.Collection, error) {
	var out primitive.Collection
	for _, tp := range stubs {
		if tp.Subsystem != primitive.DT {
			continue
		}
		if tp.Wheel != wheel || tp.Sector != sector {
			continue
		}
		if !mask.Has(tp.Station) {
			continue
		}
		if tp.DT.SegmentNumber != addrs[tp.Station-1] {
			continue
		}
		out = append(out, tp)
	}
	return out, nil
}
