package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"soundcheck/internal/modules/meter/domain"
	meterout "soundcheck/internal/modules/meter/port/out"
	apperrors "soundcheck/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

type SQLiteMeasurementProjector struct {
	db *sql.DB
}

func NewSQLiteMeasurementProjector(dbPath string) (*SQLiteMeasurementProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteMeasurementProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

var _ meterout.MeasurementProjector = (*SQLiteMeasurementProjector)(nil)

func (s *SQLiteMeasurementProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS measurements (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  duration_ms INTEGER NOT NULL,
  max_level REAL NOT NULL,
  avg_level REAL NOT NULL,
  sample_count INTEGER NOT NULL,
  note_path TEXT,
  svg_path TEXT
);
CREATE TABLE IF NOT EXISTS trend_points (
  measurement_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  offset_ms INTEGER NOT NULL,
  value REAL NOT NULL,
  PRIMARY KEY (measurement_id, position)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create measurement tables: %w", err)
	}
	return nil
}

func (s *SQLiteMeasurementProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trend_points`); err != nil {
		return fmt.Errorf("reset trend points: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM measurements`); err != nil {
		return fmt.Errorf("reset measurements: %w", err)
	}
	return nil
}

func (s *SQLiteMeasurementProjector) Upsert(ctx context.Context, m domain.Measurement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO measurements (id, started_at, ended_at, duration_ms, max_level, avg_level, sample_count, note_path, svg_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  duration_ms=excluded.duration_ms,
  max_level=excluded.max_level,
  avg_level=excluded.avg_level,
  sample_count=excluded.sample_count,
  note_path=excluded.note_path,
  svg_path=excluded.svg_path;
`
	if _, err := tx.ExecContext(ctx, stmt,
		m.ID,
		m.StartedAt.Format(timeFormat),
		m.EndedAt.Format(timeFormat),
		m.Duration.Milliseconds(),
		m.MaxLevel,
		m.AvgLevel,
		m.SampleCount,
		m.NotePath,
		m.SVGPath,
	); err != nil {
		return fmt.Errorf("upsert measurement: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trend_points WHERE measurement_id = ?`, m.ID); err != nil {
		return fmt.Errorf("clear trend points: %w", err)
	}
	for i, p := range m.Trend {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trend_points (measurement_id, position, offset_ms, value) VALUES (?, ?, ?, ?)`,
			m.ID, i, p.Offset.Milliseconds(), p.Value,
		); err != nil {
			return fmt.Errorf("insert trend point: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func (s *SQLiteMeasurementProjector) List(ctx context.Context) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, ended_at, duration_ms, max_level, avg_level, sample_count, note_path, svg_path
FROM measurements ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	var measurements []domain.Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	for i := range measurements {
		trend, err := s.loadTrend(ctx, measurements[i].ID)
		if err != nil {
			return nil, err
		}
		measurements[i].Trend = trend
	}
	return measurements, nil
}

func (s *SQLiteMeasurementProjector) Get(ctx context.Context, id string) (domain.Measurement, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, started_at, ended_at, duration_ms, max_level, avg_level, sample_count, note_path, svg_path
FROM measurements WHERE id = ?`, id)
	m, err := scanMeasurement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Measurement{}, apperrors.ErrNotFound
		}
		return domain.Measurement{}, err
	}
	m.Trend, err = s.loadTrend(ctx, id)
	if err != nil {
		return domain.Measurement{}, err
	}
	return m, nil
}

func (s *SQLiteMeasurementProjector) Close() error {
	return s.db.Close()
}

func (s *SQLiteMeasurementProjector) loadTrend(ctx context.Context, id string) ([]domain.TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT offset_ms, value FROM trend_points WHERE measurement_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load trend: %w", err)
	}
	defer rows.Close()

	var trend []domain.TrendPoint
	for rows.Next() {
		var offsetMS int64
		var value float64
		if err := rows.Scan(&offsetMS, &value); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		trend = append(trend, domain.TrendPoint{
			Offset: time.Duration(offsetMS) * time.Millisecond,
			Value:  value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load trend: %w", err)
	}
	return trend, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (domain.Measurement, error) {
	var m domain.Measurement
	var startedAt, endedAt string
	var durationMS int64
	if err := row.Scan(&m.ID, &startedAt, &endedAt, &durationMS, &m.MaxLevel, &m.AvgLevel, &m.SampleCount, &m.NotePath, &m.SVGPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Measurement{}, sql.ErrNoRows
		}
		return domain.Measurement{}, fmt.Errorf("scan measurement: %w", err)
	}
	var err error
	if m.StartedAt, err = time.Parse(timeFormat, startedAt); err != nil {
		return domain.Measurement{}, fmt.Errorf("parse started_at: %w", err)
	}
	if m.EndedAt, err = time.Parse(timeFormat, endedAt); err != nil {
		return domain.Measurement{}, fmt.Errorf("parse ended_at: %w", err)
	}
	m.Duration = time.Duration(durationMS) * time.Millisecond
	return m, nil
}
