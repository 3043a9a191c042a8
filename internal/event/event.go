// Package event is the per-cycle data exchange between the host and the
// converter: labelled, typed products for one bunch-crossing readout.
package event

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductType     = errors.New("product has unexpected type")
	ErrProductExists   = errors.New("product already exists")
)

// ID identifies an event within a data-taking run.
type ID struct {
	Run   uint64 `json:"run"`
	Lumi  uint64 `json:"lumi"`
	Event uint64 `json:"event"`
}

func (id ID) String() string {
	return fmt.Sprintf("%d:%d:%d", id.Run, id.Lumi, id.Event)
}

// Event holds the products of one processing cycle. It is not safe for
// concurrent use.
type Event struct {
	ID       ID
	products map[string]any
}

// New returns an empty event.
func New(id ID) *Event {
	return &Event{ID: id, products: make(map[string]any)}
}

// Put stores product under label. A label can be written once. The zero
// Event is ready to use.
func (e *Event) Put(label string, product any) error {
	if _, ok := e.products[label]; ok {
		return fmt.Errorf("%w: %q in event %s", ErrProductExists, label, e.ID)
	}
	if e.products == nil {
		e.products = make(map[string]any)
	}
	e.products[label] = product
	return nil
}

// Has reports whether label is present.
func (e *Event) Has(label string) bool {
	_, ok := e.products[label]
	return ok
}

// Len returns the number of stored products.
func (e *Event) Len() int {
	return len(e.products)
}

// Get fetches the product under label as T.
func Get[T any](e *Event, label string) (T, error) {
	var zero T
	p, ok := e.products[label]
	if !ok {
		return zero, fmt.Errorf("%w: %q in event %s", ErrProductNotFound, label, e.ID)
	}
	v, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, want %T", ErrProductType, label, p, zero)
	}
	return v, nil
}
