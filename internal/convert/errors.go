package convert

import (
	"fmt"

	"github.com/l1itmu/dttfconv/internal/dttf"
)

// SlotError reports a candidate that could not be assembled. RawClass is
// the track class code exactly as read.
type SlotError struct {
	Slot     dttf.Slot
	RawClass int
	Err      error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %s (track class %d): %v", e.Slot, e.RawClass, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }
