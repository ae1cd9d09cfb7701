package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/collision"
	"github.com/banshee-data/aerial.sampling/internal/monitoring"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
	"github.com/banshee-data/aerial.sampling/internal/planning"
)

// RunSummary is one row of sampling_runs.
type RunSummary struct {
	ID          string
	Started     time.Time
	Elapsed     time.Duration
	Seed        uint64
	Index       string
	Obstacles   int
	SampleCount int
	Feasible    int
	Occupied    int
	Bounds      obstacle.BoundingVolume
}

// SaveRun stores res with its obstacles and samples in one transaction and
// returns the new run id.
func (s *Store) SaveRun(res *planning.Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	id := uuid.NewString()
	feasible, occupied := res.Counts()
	nObstacles := 0
	if res.Obstacles != nil {
		nObstacles = res.Obstacles.Len()
	}

	tx, err := s.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	b := res.Bounds
	_, err = tx.Exec(`
		INSERT INTO sampling_runs (
			run_id, started_ns, elapsed_ns, seed, index_kind, obstacles,
			sample_count, feasible, occupied,
			min_north, min_east, min_alt, max_north, max_east, max_alt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Started.UnixNano(), int64(res.Elapsed), int64(res.Seed), res.Index, nObstacles,
		len(res.Samples), feasible, occupied,
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	if res.Obstacles != nil {
		stmt, err := tx.Prepare(`INSERT INTO sampling_obstacles (run_id, seq, north, east, d_north, d_east, height) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("failed to prepare obstacle insert: %w", err)
		}
		defer stmt.Close()
		for i, o := range res.Obstacles.Obstacles() {
			bd := o.Bound()
			dn := (bd.Max[0] - bd.Min[0]) / 2
			de := (bd.Max[1] - bd.Min[1]) / 2
			if _, err := stmt.Exec(id, i, o.Center[0], o.Center[1], dn, de, o.Height); err != nil {
				return "", fmt.Errorf("failed to insert obstacle %d: %w", i, err)
			}
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO sampling_points (run_id, seq, north, east, alt, label) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()
	for i, smp := range res.Samples {
		if _, err := stmt.Exec(id, i, smp.Point.X, smp.Point.Y, smp.Point.Z, smp.Label.String()); err != nil {
			return "", fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	monitoring.Logf("store: saved run %s (%d samples, %d obstacles)", id, len(res.Samples), nObstacles)
	return id, nil
}

const runColumns = `run_id, started_ns, elapsed_ns, seed, index_kind, obstacles,
	sample_count, feasible, occupied,
	min_north, min_east, min_alt, max_north, max_east, max_alt`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (RunSummary, error) {
	var (
		r                  RunSummary
		startedNs, elapsed int64
		seed               int64
	)
	err := row.Scan(&r.ID, &startedNs, &elapsed, &seed, &r.Index, &r.Obstacles,
		&r.SampleCount, &r.Feasible, &r.Occupied,
		&r.Bounds.Min.X, &r.Bounds.Min.Y, &r.Bounds.Min.Z,
		&r.Bounds.Max.X, &r.Bounds.Max.Y, &r.Bounds.Max.Z)
	if err != nil {
		return RunSummary{}, err
	}
	r.Started = time.Unix(0, startedNs)
	r.Elapsed = time.Duration(elapsed)
	r.Seed = uint64(seed)
	return r, nil
}

// ListRuns returns stored runs, most recent first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	rows, err := s.Query(`SELECT ` + runColumns + ` FROM sampling_runs ORDER BY started_ns DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the summary for id or ErrRunNotFound.
func (s *Store) GetRun(id string) (RunSummary, error) {
	r, err := scanRun(s.QueryRow(`SELECT `+runColumns+` FROM sampling_runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return r, nil
}

// LoadSamples returns the labeled samples of run id in sample order.
func (s *Store) LoadSamples(id string) ([]collision.LabeledSample, error) {
	if _, err := s.GetRun(id); err != nil {
		return nil, err
	}
	rows, err := s.Query(`SELECT north, east, alt, label FROM sampling_points WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	out := []collision.LabeledSample{}
	for rows.Next() {
		var (
			p     r3.Vec
			label string
		)
		if err := rows.Scan(&p.X, &p.Y, &p.Z, &label); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		l, err := collision.ParseLabel(label)
		if err != nil {
			return nil, err
		}
		out = append(out, collision.LabeledSample{Point: p, Label: l})
	}
	return out, rows.Err()
}

// LoadObstacles returns records that rebuild run id's obstacle set. Each
// record sits on the ground (Alt 0) with DAlt equal to the stored height.
func (s *Store) LoadObstacles(id string) ([]obstacle.Record, error) {
	if _, err := s.GetRun(id); err != nil {
		return nil, err
	}
	rows, err := s.Query(`SELECT north, east, d_north, d_east, height FROM sampling_obstacles WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query obstacles: %w", err)
	}
	defer rows.Close()

	var out []obstacle.Record
	for rows.Next() {
		var r obstacle.Record
		if err := rows.Scan(&r.North, &r.East, &r.DNorth, &r.DEast, &r.DAlt); err != nil {
			return nil, fmt.Errorf("failed to scan obstacle: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRun removes run id with its samples and obstacles.
func (s *Store) DeleteRun(id string) error {
	res, err := s.Exec(`DELETE FROM sampling_runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
