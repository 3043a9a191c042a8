// Package primitive defines muon trigger primitives ("stubs"): localised
// segments reported by a single chamber at one station.
//
// Only DT primitives carry detector-specific payload here; CSC and RPC
// primitives are represented so that mixed collections can be filtered.
package primitive
