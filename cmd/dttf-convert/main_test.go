package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1itmu/dttfconv/internal/event"
	"github.com/l1itmu/dttfconv/internal/eventio"
	"github.com/l1itmu/dttfconv/internal/monitoring"
	"github.com/l1itmu/dttfconv/internal/primitive"
	"github.com/l1itmu/dttfconv/internal/storage/sqlite"
)

var fixture = filepath.Join("..", "..", "internal", "eventio", "testdata", "events.jsonl")

func quietLogs(t *testing.T) {
	t.Helper()
	original := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = original })
}

func TestParseFlags(t *testing.T) {
	_, err := parseFlags([]string{"-db", "x.db"})
	assert.ErrorContains(t, err, "-input is required")

	_, err = parseFlags([]string{"-input", "in.jsonl"})
	assert.ErrorContains(t, err, "-db or -out")

	o, err := parseFlags([]string{"-input", "in.jsonl", "-out", "-", "-v"})
	require.NoError(t, err)
	assert.Equal(t, "in.jsonl", o.inputPath)
	assert.Equal(t, "-", o.outPath)
	assert.True(t, o.verbose)

	o, err = parseFlags([]string{"-version"})
	require.NoError(t, err)
	assert.True(t, o.version)
}

func TestRunJSONLToStdout(t *testing.T) {
	quietLogs(t)

	var stdout bytes.Buffer
	err := run(context.Background(), options{inputPath: fixture, outPath: "-"}, &stdout)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)

	var recs []eventio.TrackRecord
	for _, l := range lines {
		var rec eventio.TrackRecord
		require.NoError(t, json.Unmarshal([]byte(l), &rec))
		recs = append(recs, rec)
	}

	// Event 1: wheel 0, sector 3 (matcher sector 4), T13 with addresses 7/9.
	require.Len(t, recs[0].Tracks, 1)
	assert.Len(t, recs[0].Tracks[0].Stubs, 2)
	assert.Equal(t, 1, recs[0].Tracks[0].Stubs[0].Station)
	assert.Equal(t, 3, recs[0].Tracks[0].Stubs[1].Station)

	assert.Empty(t, recs[1].Tracks)

	// Event 3: T1234 and T12 in the same slot; RPC stub never matched.
	require.Len(t, recs[2].Tracks, 2)
	assert.Equal(t, 1, recs[2].Tracks[0].Index)
	assert.Equal(t, 2, recs[2].Tracks[1].Index)
	require.Len(t, recs[2].Tracks[0].Stubs, 1)
	assert.Equal(t, primitive.DT, recs[2].Tracks[0].Stubs[0].Subsystem)
	require.Len(t, recs[2].Tracks[1].Stubs, 1)
	assert.Equal(t, 2, recs[2].Tracks[1].Stubs[0].Station)
}

func TestRunToDatabase(t *testing.T) {
	quietLogs(t)

	dbPath := filepath.Join(t.TempDir(), "out.db")
	require.NoError(t, run(context.Background(), options{inputPath: fixture, dbPath: dbPath}, nil))

	db, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var runID, status string
	var events, tracks int
	require.NoError(t, db.QueryRow(`SELECT run_id, status, events, tracks FROM conversion_runs`).
		Scan(&runID, &status, &events, &tracks))
	assert.Equal(t, sqlite.RunCompleted, status)
	assert.Equal(t, 3, events)
	assert.Equal(t, 3, tracks)

	got, err := sqlite.NewTrackStore(db.DB).ListEvent(runID, event.ID{Run: 1, Lumi: 1, Event: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Stubs, 2)
}

func TestRunAbortsOnUnknownTrackClass(t *testing.T) {
	quietLogs(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "bad.jsonl")
	line := `{"run":9,"lumi":1,"event":1,"dt_tracks":{"dttfDigis":[{"wheel":1,"sector":2,"bx":0,"trk_tag":0,"track_class":11}]},"trigger_primitives":{"L1TMuonTriggerPrimitives":[]}}`
	require.NoError(t, os.WriteFile(input, []byte(line+"\n"), 0644))

	dbPath := filepath.Join(dir, "out.db")
	err := run(context.Background(), options{inputPath: input, dbPath: dbPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wheel=1 sector=2 bx=0 cand=1")
	assert.Contains(t, err.Error(), "track class 11")

	db, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM conversion_runs`).Scan(&status))
	assert.Equal(t, sqlite.RunFailed, status)
}

func TestRunSkipPolicyFromConfig(t *testing.T) {
	quietLogs(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"on_unknown_track_class":"skip","BX_min":0,"BX_max":0}`), 0644))
	input := filepath.Join(dir, "bad.jsonl")
	line := `{"run":9,"lumi":1,"event":1,"dt_tracks":{"dttfDigis":[{"wheel":1,"sector":2,"bx":0,"trk_tag":0,"track_class":11},{"wheel":1,"sector":2,"bx":0,"trk_tag":1,"track_class":5,"addresses":[1,1,15,15]}]},"trigger_primitives":{"L1TMuonTriggerPrimitives":[]}}`
	require.NoError(t, os.WriteFile(input, []byte(line+"\n"), 0644))

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), options{configPath: cfgPath, inputPath: input, outPath: "-"}, &stdout))

	var rec eventio.TrackRecord
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &rec))
	require.Len(t, rec.Tracks, 1)
	assert.Equal(t, 2, rec.Tracks[0].Index)
}
