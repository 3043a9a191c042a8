package monitoring

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/l1itmu/dttfconv/internal/dttf"
)

// Summary accumulates conversion statistics across cycles. It satisfies
// convert.Observer and is safe for concurrent use.
type Summary struct {
	mu sync.Mutex

	cycles        int
	slotsVisited  int
	slotsOccupied int
	skipped       int
	classCounts   map[dttf.TrackClass]int
	stationHits   [dttf.NumStations]int
	stubsPerTrack []float64
	tracksPerCyc  []float64
	current       int
	lastSkipErr   error
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{classCounts: make(map[dttf.TrackClass]int)}
}

// SlotVisited implements convert.Observer.
func (s *Summary) SlotVisited(_ dttf.Slot, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slotsVisited++
	if present {
		s.slotsOccupied++
	}
}

// TrackAssembled implements convert.Observer.
func (s *Summary) TrackAssembled(_ dttf.Slot, class dttf.TrackClass, mask dttf.StationMask, stubs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classCounts[class]++
	for _, st := range mask.Stations() {
		s.stationHits[st-1]++
	}
	s.stubsPerTrack = append(s.stubsPerTrack, float64(stubs))
	s.current++
}

// CandidateSkipped implements convert.Observer.
func (s *Summary) CandidateSkipped(_ dttf.Slot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped++
	s.lastSkipErr = err
}

// EndCycle closes the current cycle's track count.
func (s *Summary) EndCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles++
	s.tracksPerCyc = append(s.tracksPerCyc, float64(s.current))
	s.current = 0
}

// SummaryReport is a snapshot of a Summary.
type SummaryReport struct {
	Cycles            int                   `json:"cycles"`
	SlotsVisited      int                   `json:"slots_visited"`
	SlotsOccupied     int                   `json:"slots_occupied"`
	Tracks            int                   `json:"tracks"`
	Skipped           int                   `json:"skipped"`
	ClassCounts       map[string]int        `json:"class_counts"`
	StationHits       [dttf.NumStations]int `json:"station_hits"`
	TracksPerCycleAvg float64               `json:"tracks_per_cycle_avg"`
	TracksPerCycleStd float64               `json:"tracks_per_cycle_std"`
	StubsPerTrackAvg  float64               `json:"stubs_per_track_avg"`
	StubsPerTrackStd  float64               `json:"stubs_per_track_std"`
	StubsPerTrackP50  float64               `json:"stubs_per_track_p50"`
	StubsPerTrackP95  float64               `json:"stubs_per_track_p95"`
	TracksWithoutStub int                   `json:"tracks_without_stubs"`
	LastSkipError     string                `json:"last_skip_error,omitempty"`
}

// ErrNoCycles is returned by Report before any cycle was closed.
var ErrNoCycles = errors.New("no cycles recorded")

// Report computes the current statistics.
func (s *Summary) Report() (SummaryReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cycles == 0 {
		return SummaryReport{}, ErrNoCycles
	}

	r := SummaryReport{
		Cycles:        s.cycles,
		SlotsVisited:  s.slotsVisited,
		SlotsOccupied: s.slotsOccupied,
		Tracks:        len(s.stubsPerTrack),
		Skipped:       s.skipped,
		ClassCounts:   make(map[string]int, len(s.classCounts)),
		StationHits:   s.stationHits,
	}
	for k, v := range s.classCounts {
		r.ClassCounts[k.String()] = v
	}
	if s.lastSkipErr != nil {
		r.LastSkipError = s.lastSkipErr.Error()
	}

	r.TracksPerCycleAvg, r.TracksPerCycleStd = meanStd(s.tracksPerCyc)
	if len(s.stubsPerTrack) > 0 {
		r.StubsPerTrackAvg, r.StubsPerTrackStd = meanStd(s.stubsPerTrack)
		sorted := append([]float64(nil), s.stubsPerTrack...)
		sort.Float64s(sorted)
		r.StubsPerTrackP50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		r.StubsPerTrackP95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
		for _, n := range sorted {
			if n == 0 {
				r.TracksWithoutStub++
			}
		}
	}
	return r, nil
}

// meanStd is stat.MeanStdDev with a zero deviation for a single sample.
func meanStd(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func (r SummaryReport) String() string {
	return fmt.Sprintf("cycles=%d tracks=%d skipped=%d occupancy=%d/%d tracks/cycle=%.2f±%.2f stubs/track=%.2f±%.2f (p50=%.0f p95=%.0f, %d without stubs)",
		r.Cycles, r.Tracks, r.Skipped, r.SlotsOccupied, r.SlotsVisited,
		r.TracksPerCycleAvg, r.TracksPerCycleStd,
		r.StubsPerTrackAvg, r.StubsPerTrackStd,
		r.StubsPerTrackP50, r.StubsPerTrackP95, r.TracksWithoutStub)
}
