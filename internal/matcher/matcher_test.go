package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/primitive"
)

func dtStub(wheel, sector, station, seg int) primitive.TriggerPrimitive {
	return primitive.TriggerPrimitive{
		Subsystem: primitive.DT,
		Wheel:     wheel,
		Sector:    sector,
		Station:   station,
		DT:        primitive.DTData{SegmentNumber: seg},
	}
}

func TestDTSegmentMatcher(t *testing.T) {
	t.Parallel()

	stubs := primitive.Collection{
		dtStub(0, 4, 1, 7), // match
		dtStub(0, 4, 2, 0), // station 2 not in mask
		dtStub(0, 4, 3, 9), // match
		dtStub(0, 4, 3, 8), // wrong segment
		dtStub(0, 3, 1, 7), // wrong sector
		dtStub(1, 4, 1, 7), // wrong wheel
		dtStub(0, 4, 4, 0), // station 4 not in mask
		dtStub(0, 4, 1, 7), // second segment with the same address
		{Subsystem: primitive.RPCBarrel, Wheel: 0, Sector: 4, Station: 1},
	}

	got, err := DTSegmentMatcher{}.MatchDT(0, 4, stubs, 0b0101, dttf.Addresses{7, 0, 9, 0})
	require.NoError(t, err)
	assert.Equal(t, primitive.Collection{stubs[0], stubs[2], stubs[7]}, got)
}

func TestDTSegmentMatcherEmptyMask(t *testing.T) {
	stubs := primitive.Collection{dtStub(0, 1, 1, 0)}
	got, err := DTSegmentMatcher{}.MatchDT(0, 1, stubs, 0, dttf.Addresses{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFuncAdapter(t *testing.T) {
	boom := errors.New("boom")
	var m Matcher = Func(func(int, int, primitive.Collection, dttf.StationMask, dttf.Addresses) (primitive.Collection, error) {
		return nil, boom
	})
	_, err := m.MatchDT(0, 1, nil, 0, dttf.Addresses{})
	assert.ErrorIs(t, err, boom)
}
