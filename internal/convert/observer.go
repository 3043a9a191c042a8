package convert

import (
	"github.com/l1itmu/dttfconv/internal/dttf"
)

// Observer receives per-slot conversion events. Implementations must not
// retain stubs beyond the call.
type Observer interface {
	// SlotVisited is called for every enumerated slot.
	SlotVisited(slot dttf.Slot, present bool)
	// TrackAssembled is called once per produced track.
	TrackAssembled(slot dttf.Slot, class dttf.TrackClass, mask dttf.StationMask, stubs int)
	// CandidateSkipped is called when the skip policy drops a candidate.
	CandidateSkipped(slot dttf.Slot, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) SlotVisited(dttf.Slot, bool)                                      {}
func (NopObserver) TrackAssembled(dttf.Slot, dttf.TrackClass, dttf.StationMask, int) {}
func (NopObserver) CandidateSkipped(dttf.Slot, error)                                {}
