// Package posestore persists timestamped SE3 pose samples in SQLite. Each
// sample is the pose of one registered SE3 frame at one frame instant,
// expressed in the odometry origin.
package posestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/geom"
	"github.com/banshee-data/coordframe/internal/timeutil"
)

var (
	// ErrNotFound is returned when no sample matches a query.
	ErrNotFound = errors.New("pose sample not found")
	// ErrDuplicate is returned by Insert when the frame already has a
	// sample at that instant.
	ErrDuplicate = errors.New("pose sample already recorded")
	// ErrUnknownFrame is returned for frame ids that are not registered
	// SE3 frames.
	ErrUnknownFrame = errors.New("unknown SE3 frame")
)

// Sample is one recorded pose.
type Sample struct {
	SampleID   string
	FrameID    string
	Time       frame.Time
	Pose       geom.Pose
	Source     string
	RecordedAt time.Time
}

// Store provides persistence for pose samples.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
	owned bool
}

// Open opens (creating if needed) the SQLite database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open pose store: %w", err)
	}
	// One writer; SQLite serialises anyway and :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	s, err := OpenDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// OpenDB wraps a database handle owned by the caller and applies pending
// migrations. Close does not close db.
func OpenDB(db *sql.DB) (*Store, error) {
	if err := migrateUp(db); err != nil {
		return nil, err
	}
	return &Store{db: db, clock: timeutil.RealClock{}}, nil
}

// SetClock replaces the clock used to stamp RecordedAt.
func (s *Store) SetClock(c timeutil.Clock) {
	s.clock = c
}

// Close releases the database if Open created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (uint, error) {
	v, dirty, err := schemaVersion(s.db)
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}

// Insert records sample. An empty SampleID is replaced with a new UUID and
// RecordedAt is stamped from the store's clock. sample is only updated once
// the row is committed.
func (s *Store) Insert(ctx context.Context, sample *Sample) error {
	if err := checkFrame(sample.FrameID); err != nil {
		return err
	}
	if !sample.Pose.Valid() {
		return fmt.Errorf("insert pose sample: invalid pose for %s at t=%d", sample.FrameID, sample.Time)
	}
	matrixJSON, err := json.Marshal(sample.Pose.Matrix())
	if err != nil {
		return fmt.Errorf("encode pose: %w", err)
	}
	sampleID := sample.SampleID
	if sampleID == "" {
		sampleID = uuid.New().String()
	}
	recordedAt := s.clock.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pose_samples WHERE frame_id = ? AND time = ?`,
		sample.FrameID, int64(sample.Time),
	).Scan(&n); err != nil {
		return fmt.Errorf("check existing sample: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s at t=%d", ErrDuplicate, sample.FrameID, sample.Time)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pose_samples (
			sample_id, frame_id, time, matrix_json, source, recorded_at_ns
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		sampleID,
		sample.FrameID,
		int64(sample.Time),
		string(matrixJSON),
		sample.Source,
		recordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert pose sample: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pose sample: %w", err)
	}
	sample.SampleID = sampleID
	sample.RecordedAt = recordedAt
	return nil
}

const selectColumns = `SELECT sample_id, frame_id, time, matrix_json, source, recorded_at_ns FROM pose_samples`

// Get returns the sample of frameID at exactly t.
func (s *Store) Get(ctx context.Context, frameID string, t frame.Time) (*Sample, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE frame_id = ? AND time = ?`, frameID, int64(t))
	sample, err := scanSample(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s at t=%d", ErrNotFound, frameID, t)
	}
	if err != nil {
		return nil, fmt.Errorf("get pose sample: %w", err)
	}
	return sample, nil
}

// Range returns the samples of frameID with from <= time <= to, oldest first.
func (s *Store) Range(ctx context.Context, frameID string, from, to frame.Time) ([]*Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE frame_id = ? AND time >= ? AND time <= ? ORDER BY time`,
		frameID, int64(from), int64(to))
	if err != nil {
		return nil, fmt.Errorf("range pose samples: %w", err)
	}
	defer rows.Close()

	var out []*Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pose sample: %w", err)
		}
		out = append(out, sample)
	}
	return out, rows.Err()
}

// Bracket returns the latest sample at or before t and the earliest at or
// after t. Both are the same sample when one exists at t. ErrNotFound is
// returned when either side is missing.
func (s *Store) Bracket(ctx context.Context, frameID string, t frame.Time) (before, after *Sample, err error) {
	before, err = scanSample(s.db.QueryRowContext(ctx,
		selectColumns+` WHERE frame_id = ? AND time <= ? ORDER BY time DESC LIMIT 1`, frameID, int64(t)))
	if err != nil {
		return nil, nil, bracketErr(err, frameID, t, "at or before")
	}
	if before.Time == t {
		return before, before, nil
	}
	after, err = scanSample(s.db.QueryRowContext(ctx,
		selectColumns+` WHERE frame_id = ? AND time >= ? ORDER BY time ASC LIMIT 1`, frameID, int64(t)))
	if err != nil {
		return nil, nil, bracketErr(err, frameID, t, "at or after")
	}
	return before, after, nil
}

// Frames lists the frame ids that have samples.
func (s *Store) Frames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT frame_id FROM pose_samples ORDER BY frame_id`)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan frame id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Delete removes every sample of frameID and returns how many were removed.
func (s *Store) Delete(ctx context.Context, frameID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pose_samples WHERE frame_id = ?`, frameID)
	if err != nil {
		return 0, fmt.Errorf("delete pose samples: %w", err)
	}
	return res.RowsAffected()
}

func checkFrame(frameID string) error {
	e, ok := frame.Lookup(frameID)
	if !ok || e.Repr != (frame.SE3{}).ReprName() {
		return fmt.Errorf("%w: %q", ErrUnknownFrame, frameID)
	}
	return nil
}

func bracketErr(err error, frameID string, t frame.Time, side string) error {
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: no %s sample %s t=%d", ErrNotFound, frameID, side, t)
	}
	return fmt.Errorf("bracket pose samples: %w", err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(row scanner) (*Sample, error) {
	var (
		sample     Sample
		t          int64
		matrixJSON string
		recordedNs int64
	)
	if err := row.Scan(&sample.SampleID, &sample.FrameID, &t, &matrixJSON, &sample.Source, &recordedNs); err != nil {
		return nil, err
	}
	var m [16]float64
	if err := json.Unmarshal([]byte(matrixJSON), &m); err != nil {
		return nil, fmt.Errorf("decode pose of sample %s: %w", sample.SampleID, err)
	}
	pose, err := geom.PoseFromMatrix(m)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", sample.SampleID, err)
	}
	sample.Time = frame.Time(t)
	sample.Pose = pose
	sample.RecordedAt = time.Unix(0, recordedNs).UTC()
	return &sample, nil
}
