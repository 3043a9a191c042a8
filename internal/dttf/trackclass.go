package dttf

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// NumStations is the number of muon stations a DT track can cross.
const NumStations = 4

// ErrUnknownTrackClass is returned when a candidate carries a track class
// code outside the DTTF assignment table.
var ErrUnknownTrackClass = errors.New("unknown track class")

// TrackClass is the DTTF track class: which stations contributed to a
// candidate. Numeric values follow the track finder's assignment-parameter
// ordering and appear as-is in the raw data.
type TrackClass int

const (
	T1234 TrackClass = iota
	T123
	T124
	T134
	T234
	T12
	T14
	T13
	T24
	T23
	T34
	Undef
)

var trackClassNames = [...]string{
	T1234: "T1234",
	T123:  "T123",
	T124:  "T124",
	T134:  "T134",
	T234:  "T234",
	T12:   "T12",
	T14:   "T14",
	T13:   "T13",
	T24:   "T24",
	T23:   "T23",
	T34:   "T34",
	Undef: "UNDEF",
}

func (tc TrackClass) String() string {
	if tc >= 0 && int(tc) < len(trackClassNames) {
		return trackClassNames[tc]
	}
	return fmt.Sprintf("TrackClass(%d)", int(tc))
}

// StationMask returns the 4-bit station occupancy word for the class: bit
// (station-1) is set when that station contributed. Undef and any code
// outside the table yield ErrUnknownTrackClass; a zero mask is never
// returned for a valid class.
func (tc TrackClass) StationMask() (StationMask, error) {
	switch tc {
	case T1234:
		return 0b1111, nil
	case T123:
		return 0b0111, nil
	case T124:
		return 0b1011, nil
	case T134:
		return 0b1101, nil
	case T234:
		return 0b1110, nil
	case T12:
		return 0b0011, nil
	case T14:
		return 0b1001, nil
	case T13:
		return 0b0101, nil
	case T24:
		return 0b1010, nil
	case T23:
		return 0b0110, nil
	case T34:
		return 0b1100, nil
	default:
		return 0, fmt.Errorf("%w: code %d", ErrUnknownTrackClass, int(tc))
	}
}

// StationMask is a 4-bit word where bit (station-1) marks a contributing
// station.
type StationMask uint8

// Has reports whether station (1..4) is set.
func (m StationMask) Has(station int) bool {
	if station < 1 || station > NumStations {
		return false
	}
	return m&(1<<(station-1)) != 0
}

// Count returns the number of contributing stations.
func (m StationMask) Count() int {
	return bits.OnesCount8(uint8(m & 0xF))
}

// Stations lists the set stations in ascending order.
func (m StationMask) Stations() []int {
	out := make([]int, 0, NumStations)
	for st := 1; st <= NumStations; st++ {
		if m.Has(st) {
			out = append(out, st)
		}
	}
	return out
}

func (m StationMask) String() string {
	var b strings.Builder
	b.WriteString("MB[")
	for i, st := range m.Stations() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", st)
	}
	b.WriteByte(']')
	return b.String()
}
