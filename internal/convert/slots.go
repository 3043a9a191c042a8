package convert

import (
	"iter"
	"math"

	"github.com/l1itmu/dttfconv/internal/dttf"
)

// Slots yields every coordinate of the barrel slot space in enumeration
// order: wheel ascending, then sector, then bx, then candidate index 1
// before 2. The sequence is empty when minBX > maxBX.
func Slots(minBX, maxBX int) iter.Seq[dttf.Slot] {
	return func(yield func(dttf.Slot) bool) {
		if minBX > maxBX {
			return
		}
		for wheel := dttf.MinWheel; wheel <= dttf.MaxWheel; wheel++ {
			for sector := 0; sector < dttf.NumSectors; sector++ {
				// Stop on equality so maxBX == math.MaxInt cannot wrap.
				for bx := minBX; ; bx++ {
					for idx := 1; idx <= dttf.MaxIndex; idx++ {
						if !yield(dttf.Slot{Wheel: wheel, Sector: sector, BX: bx, Index: idx}) {
							return
						}
					}
					if bx == maxBX {
						break
					}
				}
			}
		}
	}
}

// SlotCount returns the number of coordinates Slots(minBX, maxBX) yields,
// saturating at math.MaxInt.
func SlotCount(minBX, maxBX int) int {
	if minBX > maxBX {
		return 0
	}
	perBX := uint64((dttf.MaxWheel - dttf.MinWheel + 1) * dttf.NumSectors * dttf.MaxIndex)
	// Unsigned difference is exact for any minBX <= maxBX.
	span := uint64(maxBX) - uint64(minBX)
	if span >= math.MaxInt/perBX {
		return math.MaxInt
	}
	return int((span + 1) * perBX)
}
