package convert

import (
	"fmt"

	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/matcher"
	"github.com/l1itmu/dttfconv/internal/primitive"
	"github.com/l1itmu/dttfconv/internal/track"
)

// Assembler builds one internal track from one present candidate.
type Assembler struct {
	Matcher  matcher.Matcher
	Observer Observer // optional
}

// Assemble converts cand found at slot and attaches the primitives the
// matcher returns for it. The matcher sees the 1-based sector.
func (a *Assembler) Assemble(slot dttf.Slot, cand dttf.Candidate, stubs primitive.Collection) (track.InternalTrack, error) {
	trk := track.FromDTTF(cand)

	addrs := cand.Addresses()

	mask, err := cand.TrackClass.StationMask()
	if err != nil {
		return track.InternalTrack{}, &SlotError{Slot: slot, RawClass: int(cand.TrackClass), Err: err}
	}

	tracef("%s class=%s mask=%04b addrs=%v", slot, cand.TrackClass, uint8(mask), addrs)

	matched, err := a.Matcher.MatchDT(slot.Wheel, slot.Sector+1, stubs, mask, addrs)
	if err != nil {
		return track.InternalTrack{}, &SlotError{
			Slot:     slot,
			RawClass: int(cand.TrackClass),
			Err:      fmt.Errorf("match primitives: %w", err),
		}
	}

	for _, tp := range matched {
		trk.AddStub(tp)
	}
	if a.Observer != nil {
		a.Observer.TrackAssembled(slot, cand.TrackClass, mask, len(trk.Stubs))
	}
	return trk, nil
}
