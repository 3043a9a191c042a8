package dttf

import "fmt"

// Enumeration bounds of the barrel slot space.
const (
	MinWheel   = -2
	MaxWheel   = 2
	NumSectors = 12
	MaxIndex   = 2
)

// NoAddress is the station address the track finder writes for a station
// that did not contribute to the candidate.
const NoAddress = 15

// Addresses holds one track-finder address per station; entry i belongs to
// station i+1. Entries are only meaningful where the track class says the
// station contributed.
type Addresses [NumStations]int

// Candidate is one DTTF track candidate as read from the track finder
// readout. Kinematic words are carried through untouched.
type Candidate struct {
	Wheel      int        `json:"wheel"`
	Sector     int        `json:"sector"` // 0..11
	BX         int        `json:"bx"`
	TrkTag     int        `json:"trk_tag"` // 0 for the first candidate, 1 for the second
	TrackClass TrackClass `json:"track_class"`
	StAddr     Addresses  `json:"addresses"`

	PtPacked   uint `json:"pt_packed"`
	PhiPacked  uint `json:"phi_packed"`
	EtaPacked  uint `json:"eta_packed"`
	ChargeSign int  `json:"charge_sign"`
	Quality    uint `json:"quality"`
	FineHalo   bool `json:"fine_halo"`
}

// Index returns the 1-based candidate index within the (wheel, sector, bx)
// triple.
func (c Candidate) Index() int {
	return c.TrkTag + 1
}

// StationAddress returns the address recorded for station 1..4, or
// NoAddress for an out-of-range station.
func (c Candidate) StationAddress(station int) int {
	if station < 1 || station > NumStations {
		return NoAddress
	}
	return c.StAddr[station-1]
}

// Addresses returns all four station addresses regardless of which
// stations contributed.
func (c Candidate) Addresses() Addresses {
	var addrs Addresses
	for st := 1; st <= NumStations; st++ {
		addrs[st-1] = c.StationAddress(st)
	}
	return addrs
}

// Slot returns the coordinate the candidate occupies.
func (c Candidate) Slot() Slot {
	return Slot{Wheel: c.Wheel, Sector: c.Sector, BX: c.BX, Index: c.Index()}
}

// Slot is one coordinate of the enumerated space.
type Slot struct {
	Wheel  int
	Sector int // 0-based
	BX     int
	Index  int // 1 or 2
}

func (s Slot) String() string {
	return fmt.Sprintf("wheel=%d sector=%d bx=%d cand=%d", s.Wheel, s.Sector, s.BX, s.Index)
}
