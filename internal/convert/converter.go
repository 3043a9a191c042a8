package convert

import (
	"errors"
	"fmt"

	"github.com/l1itmu/dttfconv/internal/config"
	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/event"
	"github.com/l1itmu/dttfconv/internal/matcher"
	"github.com/l1itmu/dttfconv/internal/primitive"
	"github.com/l1itmu/dttfconv/internal/track"
)

// Converter runs processing cycles with a fixed configuration.
type Converter struct {
	dtTrackSrc  string
	trigPrimSrc string
	outputLabel string
	minBX       int
	maxBX       int
	skipUnknown bool

	assembler Assembler
	observer  Observer
}

// Option customises a Converter.
type Option func(*Converter)

// WithObserver installs an observer for per-slot events.
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		if o != nil {
			c.observer = o
		}
	}
}

// New validates cfg and returns a Converter that queries m.
func New(cfg *config.ConverterConfig, m matcher.Matcher, opts ...Option) (*Converter, error) {
	if cfg == nil {
		cfg = config.EmptyConverterConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid converter config: %w", err)
	}
	if m == nil {
		return nil, errors.New("nil matcher")
	}
	c := &Converter{
		dtTrackSrc:  cfg.GetDTTrackSrc(),
		trigPrimSrc: cfg.GetTriggerPrimitiveSrc(),
		outputLabel: cfg.GetOutputLabel(),
		minBX:       cfg.GetBXMin(),
		maxBX:       cfg.GetBXMax(),
		skipUnknown: cfg.GetOnUnknownTrackClass() == config.PolicySkip,
		assembler:   Assembler{Matcher: m},
		observer:    NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.assembler.Observer = c.observer
	return c, nil
}

// BXWindow returns the inclusive bx bounds the converter enumerates.
func (c *Converter) BXWindow() (minBX, maxBX int) {
	return c.minBX, c.maxBX
}

// OutputLabel returns the label Produce stores its collection under.
func (c *Converter) OutputLabel() string {
	return c.outputLabel
}

// Convert runs one cycle. On error no tracks are returned.
func (c *Converter) Convert(cands dttf.CandidateSource, stubs primitive.Collection) (track.Collection, error) {
	if cands == nil {
		return nil, errors.New("nil candidate source")
	}

	out := track.Collection{}
	skipped := 0
	for slot := range Slots(c.minBX, c.maxBX) {
		cand, ok := cands.Candidate(slot.Wheel, slot.Sector, slot.BX, slot.Index)
		c.observer.SlotVisited(slot, ok)
		if !ok {
			continue
		}

		trk, err := c.assembler.Assemble(slot, cand, stubs)
		if err != nil {
			if c.skipUnknown && errors.Is(err, dttf.ErrUnknownTrackClass) {
				opsf("skipping candidate: %v", err)
				c.observer.CandidateSkipped(slot, err)
				skipped++
				continue
			}
			opsf("aborting cycle: %v", err)
			return nil, err
		}
		out = append(out, trk)
	}

	diagf("cycle bx=[%d,%d]: %d tracks, %d stubs, %d skipped",
		c.minBX, c.maxBX, len(out), out.StubCount(), skipped)
	return out, nil
}

// Produce reads the candidate and primitive products from ev, converts
// them, and stores the result under the output label. Nothing is stored
// when conversion fails.
func (c *Converter) Produce(ev *event.Event) error {
	cands, err := event.Get[dttf.CandidateSource](ev, c.dtTrackSrc)
	if err != nil {
		return fmt.Errorf("get DT tracks: %w", err)
	}
	stubs, err := event.Get[primitive.Collection](ev, c.trigPrimSrc)
	if err != nil {
		return fmt.Errorf("get trigger primitives: %w", err)
	}

	tracks, err := c.Convert(cands, stubs)
	if err != nil {
		return fmt.Errorf("event %s: %w", ev.ID, err)
	}
	return ev.Put(c.outputLabel, tracks)
}
