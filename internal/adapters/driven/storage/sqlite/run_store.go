package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores a run and replaces its statistics rows.
func (s *runStore) Save(ctx context.Context, run *domain.AnalysisRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, filename, override_path, imaging_mode, analyzed_volume, exclusive_sets, definition, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			override_path = excluded.override_path,
			imaging_mode = excluded.imaging_mode,
			analyzed_volume = excluded.analyzed_volume,
			exclusive_sets = excluded.exclusive_sets,
			definition = excluded.definition,
			created_at = excluded.created_at
	`, run.ID, run.Filename, nullString(run.OverridePath), string(run.ImagingMode),
		run.AnalyzedVolume, boolToInt(run.ExclusiveSets), run.Definition,
		run.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM set_statistics WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing statistics: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO set_statistics (run_id, position, list_id, name, count, images, imaged_volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statistics insert: %w", err)
	}
	defer stmt.Close()

	for i, st := range run.Statistics {
		if _, err := stmt.ExecContext(ctx, run.ID, i, st.ListID, st.Name, st.Count, st.Images,
			nullableVolume(st.ImagedVolume)); err != nil {
			return fmt.Errorf("saving statistics for %q: %w", st.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run with its statistics.
func (s *runStore) Get(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, override_path, imaging_mode, analyzed_volume, exclusive_sets, definition, created_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	stats, err := s.statistics(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Statistics = stats
	return run, nil
}

// List returns runs, most recent first. Statistics are not loaded.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	query := `
		SELECT id, filename, override_path, imaging_mode, analyzed_volume, exclusive_sets, definition, created_at
		FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.AnalysisRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Delete removes a run. Statistics rows cascade.
func (s *runStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *runStore) statistics(ctx context.Context, runID string) ([]domain.SetStatistics, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT list_id, name, count, images, imaged_volume
		FROM set_statistics WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying statistics: %w", err)
	}
	defer rows.Close()

	var stats []domain.SetStatistics
	for rows.Next() {
		var st domain.SetStatistics
		var volume sql.NullFloat64
		if err := rows.Scan(&st.ListID, &st.Name, &st.Count, &st.Images, &volume); err != nil {
			return nil, fmt.Errorf("scanning statistics: %w", err)
		}
		st.ImagedVolume = math.NaN()
		if volume.Valid {
			st.ImagedVolume = volume.Float64
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating statistics: %w", err)
	}
	return stats, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.AnalysisRun, error) {
	var run domain.AnalysisRun
	var overridePath sql.NullString
	var mode, createdAt string
	var exclusive int

	if err := row.Scan(&run.ID, &run.Filename, &overridePath, &mode, &run.AnalyzedVolume,
		&exclusive, &run.Definition, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.OverridePath = overridePath.String
	run.ImagingMode = domain.ImagingTargetMode(mode)
	run.ExclusiveSets = exclusive != 0

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	run.CreatedAt = t
	return &run, nil
}

// nullableVolume stores NaN as NULL.
func nullableVolume(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
