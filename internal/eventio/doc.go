// Package eventio reads events from JSON-lines files and writes converted
// tracks back out, one JSON object per line.
//
// Input line layout:
//
//	{"run":1,"lumi":1,"event":7,
//	 "dt_tracks":{"dttfDigis":[{...candidate...}]},
//	 "trigger_primitives":{"L1TMuonTriggerPrimitives":[{...stub...}]}}
//
// Each label becomes one product of the decoded event.Event. Files ending
// in .gz are decompressed transparently.
package eventio
