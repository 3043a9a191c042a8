// Package track defines the internal track record produced by the
// converter: a regional candidate plus the trigger primitives matched to
// it.
//
// Key types: InternalTrack, Collection.
package track
