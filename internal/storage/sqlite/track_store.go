package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/l1itmu/dttfconv/internal/dttf"
	"github.com/l1itmu/dttfconv/internal/event"
	"github.com/l1itmu/dttfconv/internal/primitive"
	"github.com/l1itmu/dttfconv/internal/track"
)

// TrackStore persists converted track collections.
type TrackStore struct {
	db *sql.DB
}

// NewTrackStore creates a TrackStore.
func NewTrackStore(db *sql.DB) *TrackStore {
	return &TrackStore{db: db}
}

// InsertEvent writes the tracks of one event, and their stubs, in a single
// transaction. Sequence numbers preserve collection order.
func (s *TrackStore) InsertEvent(runID string, id event.ID, tracks track.Collection) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert event: %w", err)
	}
	defer tx.Rollback()

	trackStmt, err := tx.Prepare(`
		INSERT INTO converted_tracks (
			track_id, run_id, data_run, data_lumi, data_event, seq,
			wheel, sector, bx, trk_tag, track_class,
			addr1, addr2, addr3, addr4,
			pt_packed, phi_packed, eta_packed, charge_sign, quality, fine_halo,
			stub_mode
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare track insert: %w", err)
	}
	defer trackStmt.Close()

	stubStmt, err := tx.Prepare(`
		INSERT INTO converted_track_stubs (
			track_id, ord, subsystem, wheel, sector, station, bx,
			segment_number, radial_angle, bending_angle, quality_code,
			ts2_tag_code, bx_cnt_code, theta_bti_group, theta_code, theta_quality
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stub insert: %w", err)
	}
	defer stubStmt.Close()

	for seq, trk := range tracks {
		trackID := uuid.New().String()
		p := trk.Parent
		_, err := trackStmt.Exec(
			trackID, runID, id.Run, id.Lumi, id.Event, seq,
			p.Wheel, p.Sector, p.BX, p.TrkTag, int(p.TrackClass),
			p.StAddr[0], p.StAddr[1], p.StAddr[2], p.StAddr[3],
			p.PtPacked, p.PhiPacked, p.EtaPacked, p.ChargeSign, p.Quality, p.FineHalo,
			trk.StubMode,
		)
		if err != nil {
			return fmt.Errorf("insert track %d of event %s: %w", seq, id, err)
		}
		for ord, tp := range trk.Stubs {
			d := tp.DT
			_, err := stubStmt.Exec(
				trackID, ord, int(tp.Subsystem), tp.Wheel, tp.Sector, tp.Station, tp.BX,
				d.SegmentNumber, d.RadialAngle, d.BendingAngle, d.QualityCode,
				d.Ts2TagCode, d.BxCntCode, d.ThetaBTIGroup, d.ThetaCode, d.ThetaQuality,
			)
			if err != nil {
				return fmt.Errorf("insert stub %d of track %d: %w", ord, seq, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event %s: %w", id, err)
	}
	return nil
}

// ListEvent reads back the tracks of one event in stored order.
func (s *TrackStore) ListEvent(runID string, id event.ID) (track.Collection, error) {
	rows, err := s.db.Query(`
		SELECT track_id, wheel, sector, bx, trk_tag, track_class,
		       addr1, addr2, addr3, addr4,
		       pt_packed, phi_packed, eta_packed, charge_sign, quality, fine_halo
		FROM converted_tracks
		WHERE run_id = ? AND data_run = ? AND data_lumi = ? AND data_event = ?
		ORDER BY seq`,
		runID, id.Run, id.Lumi, id.Event,
	)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}

	var ids []string
	out := track.Collection{}
	for rows.Next() {
		var (
			trackID string
			class   int
			cand    dttf.Candidate
		)
		if err := rows.Scan(
			&trackID, &cand.Wheel, &cand.Sector, &cand.BX, &cand.TrkTag, &class,
			&cand.StAddr[0], &cand.StAddr[1], &cand.StAddr[2], &cand.StAddr[3],
			&cand.PtPacked, &cand.PhiPacked, &cand.EtaPacked, &cand.ChargeSign, &cand.Quality, &cand.FineHalo,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan track: %w", err)
		}
		cand.TrackClass = dttf.TrackClass(class)
		ids = append(ids, trackID)
		out = append(out, track.FromDTTF(cand))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	rows.Close()

	for i, trackID := range ids {
		stubs, err := s.listStubs(trackID)
		if err != nil {
			return nil, err
		}
		for _, tp := range stubs {
			out[i].AddStub(tp)
		}
	}
	return out, nil
}

func (s *TrackStore) listStubs(trackID string) (primitive.Collection, error) {
	rows, err := s.db.Query(`
		SELECT subsystem, wheel, sector, station, bx,
		       segment_number, radial_angle, bending_angle, quality_code,
		       ts2_tag_code, bx_cnt_code, theta_bti_group, theta_code, theta_quality
		FROM converted_track_stubs
		WHERE track_id = ?
		ORDER BY ord`, trackID)
	if err != nil {
		return nil, fmt.Errorf("list stubs: %w", err)
	}
	defer rows.Close()

	var out primitive.Collection
	for rows.Next() {
		var tp primitive.TriggerPrimitive
		var sub int
		d := &tp.DT
		if err := rows.Scan(
			&sub, &tp.Wheel, &tp.Sector, &tp.Station, &tp.BX,
			&d.SegmentNumber, &d.RadialAngle, &d.BendingAngle, &d.QualityCode,
			&d.Ts2TagCode, &d.BxCntCode, &d.ThetaBTIGroup, &d.ThetaCode, &d.ThetaQuality,
		); err != nil {
			return nil, fmt.Errorf("scan stub: %w", err)
		}
		tp.Subsystem = primitive.Subsystem(sub)
		out = append(out, tp)
	}
	return out, rows.Err()
}

// CountTracks returns the number of tracks stored for a run.
func (s *TrackStore) CountTracks(runID string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM converted_tracks WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tracks: %w", err)
	}
	return n, nil
}
