package dttf

// CandidateSource is the point-lookup view of a track finder readout.
// A false result means the slot is unoccupied.
type CandidateSource interface {
	Candidate(wheel, sector, bx, index int) (Candidate, bool)
}

// Readout limits accepted by Container lookups. Wheel ±3 exists in the
// readout even though the converter only walks ±2.
const (
	containerMinWheel = -3
	containerMaxWheel = 3
)

type slotKey struct {
	wheel, sector, bx, tag int
}

// Container holds the candidates of one event and answers slot lookups.
// When the readout carries duplicates for a slot the first one wins.
type Container struct {
	cands []Candidate
	index map[slotKey]int
}

// NewContainer indexes cands. The slice is copied.
func NewContainer(cands []Candidate) *Container {
	c := &Container{
		cands: make([]Candidate, len(cands)),
		index: make(map[slotKey]int, len(cands)),
	}
	copy(c.cands, cands)
	for i, cand := range c.cands {
		k := slotKey{cand.Wheel, cand.Sector, cand.BX, cand.TrkTag}
		if _, dup := c.index[k]; dup {
			continue
		}
		c.index[k] = i
	}
	return c
}

// Candidate returns the candidate at (wheel, sector, bx, index), where
// index is 1 or 2.
func (c *Container) Candidate(wheel, sector, bx, index int) (Candidate, bool) {
	if c == nil {
		return Candidate{}, false
	}
	if wheel < containerMinWheel || wheel > containerMaxWheel {
		return Candidate{}, false
	}
	if sector < 0 || sector >= NumSectors || index < 1 || index > MaxIndex {
		return Candidate{}, false
	}
	i, ok := c.index[slotKey{wheel, sector, bx, index - 1}]
	if !ok {
		return Candidate{}, false
	}
	return c.cands[i], true
}

// Len returns the number of stored candidates, duplicates included.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cands)
}

// All returns a copy of the stored candidates in readout order.
func (c *Container) All() []Candidate {
	if c == nil {
		return nil
	}
	out := make([]Candidate, len(c.cands))
	copy(out, c.cands)
	return out
}
