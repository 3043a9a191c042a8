package track

import (
	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/primitive"
)

// InternalTrack is a converted DTTF candidate. Parent keeps the full
// candidate; the flattened fields mirror it for consumers that do not
// care about the source format.
type InternalTrack struct {
	Parent    dttf.Candidate      `json:"parent"`
	Subsystem primitive.Subsystem `json:"subsystem"`
	Wheel     int                 `json:"wheel"`
	Sector    int                 `json:"sector"`
	BX        int                 `json:"bx"`
	Index     int                 `json:"index"`

	PtPacked   uint `json:"pt_packed"`
	PhiPacked  uint `json:"phi_packed"`
	EtaPacked  uint `json:"eta_packed"`
	ChargeSign int  `json:"charge_sign"`
	Quality    uint `json:"quality"`

	// StubMode has one bit per (subsystem, station) that has at least one
	// attached stub: bit 4*subsystem + station - 1.
	StubMode uint16 `json:"stub_mode"`

	Stubs primitive.Collection `json:"stubs"`
}

// FromDTTF initialises a track from a DTTF candidate with no stubs.
func FromDTTF(c dttf.Candidate) InternalTrack {
	return InternalTrack{
		Parent:     c,
		Subsystem:  primitive.DT,
		Wheel:      c.Wheel,
		Sector:     c.Sector,
		BX:         c.BX,
		Index:      c.Index(),
		PtPacked:   c.PtPacked,
		PhiPacked:  c.PhiPacked,
		EtaPacked:  c.EtaPacked,
		ChargeSign: c.ChargeSign,
		Quality:    c.Quality,
		Stubs:      primitive.Collection{},
	}
}

// AddStub appends a copy of tp. Stubs keep insertion order and are never
// deduplicated.
func (t *InternalTrack) AddStub(tp primitive.TriggerPrimitive) {
	t.Stubs = append(t.Stubs, tp)
	if bit, ok := modeBit(tp); ok {
		t.StubMode |= bit
	}
}

func modeBit(tp primitive.TriggerPrimitive) (uint16, bool) {
	if tp.Subsystem < 0 || int(tp.Subsystem) >= primitive.NumSubsystems {
		return 0, false
	}
	if tp.Station < 1 || tp.Station > dttf.NumStations {
		return 0, false
	}
	return 1 << (4*uint(tp.Subsystem) + uint(tp.Station) - 1), true
}

// StationMode returns the 4-bit station word of one subsystem.
func (t InternalTrack) StationMode(s primitive.Subsystem) dttf.StationMask {
	if s < 0 || int(s) >= primitive.NumSubsystems {
		return 0
	}
	return dttf.StationMask((t.StubMode >> (4 * uint(s))) & 0xF)
}

// StubsAt returns the attached stubs of one subsystem and station in
// insertion order.
func (t InternalTrack) StubsAt(s primitive.Subsystem, station int) primitive.Collection {
	var out primitive.Collection
	for _, tp := range t.Stubs {
		if tp.Subsystem == s && tp.Station == station {
			out = append(out, tp)
		}
	}
	return out
}

// Collection is the converter output for one event, in enumeration order.
type Collection []InternalTrack

// StubCount returns the total number of attached stubs.
func (c Collection) StubCount() int {
	n := 0
	for _, t := range c {
		n += len(t.Stubs)
	}
	return n
}
