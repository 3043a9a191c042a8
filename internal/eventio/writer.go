package eventio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/l1itmu/dttfconv/internal/event"
	"github.com/l1itmu/dttfconv/internal/track"
)

// TrackRecord is the output line for one event.
type TrackRecord struct {
	event.ID
	Label  string           `json:"label"`
	Tracks track.Collection `json:"tracks"`
}

// Writer streams TrackRecords as JSON lines.
type Writer struct {
	bw  *bufio.Writer
	enc *json.Encoder
}

// NewWriter writes to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{bw: bw, enc: json.NewEncoder(bw)}
}

// Write emits one event's converted tracks.
func (w *Writer) Write(id event.ID, label string, tracks track.Collection) error {
	if tracks == nil {
		tracks = track.Collection{}
	}
	if err := w.enc.Encode(TrackRecord{ID: id, Label: label, Tracks: tracks}); err != nil {
		return fmt.Errorf("encode event %s: %w", id, err)
	}
	return nil
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
