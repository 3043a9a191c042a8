package eventio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/event"
	"github.com/l1itmu/dttfconv/internal/primitive"
)

const maxLineBytes = 16 * 1024 * 1024

type rawEvent struct {
	Run               uint64                          `json:"run"`
	Lumi              uint64                          `json:"lumi"`
	Event             uint64                          `json:"event"`
	DTTracks          map[string][]dttf.Candidate     `json:"dt_tracks"`
	TriggerPrimitives map[string]primitive.Collection `json:"trigger_primitives"`
}

// Reader decodes events from a JSON-lines stream.
type Reader struct {
	sc   *bufio.Scanner
	line int
	c    io.Closer
}

// NewReader reads events from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{sc: sc}
}

// Open opens path, decompressing .gz files.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		r := NewReader(f)
		r.c = f
		return r, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip events: %w", err)
	}
	r := NewReader(gz)
	r.c = multiCloser{gz, f}
	return r, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}

// Next returns the next event, or io.EOF when the stream is exhausted.
// Blank lines are skipped.
func (r *Reader) Next(ctx context.Context) (*event.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return nil, fmt.Errorf("line %d: %w", r.line+1, err)
			}
			return nil, io.EOF
		}
		r.line++
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := decodeEvent(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		return ev, nil
	}
}

func decodeEvent(line []byte) (*event.Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	ev := event.New(event.ID{Run: raw.Run, Lumi: raw.Lumi, Event: raw.Event})
	for label, cands := range raw.DTTracks {
		if err := ev.Put(label, dttf.CandidateSource(dttf.NewContainer(cands))); err != nil {
			return nil, err
		}
	}
	for label, tps := range raw.TriggerPrimitives {
		if tps == nil {
			tps = primitive.Collection{}
		}
		if err := ev.Put(label, tps); err != nil {
			return nil, err
		}
	}
	return ev, nil
}
