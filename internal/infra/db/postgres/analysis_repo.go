package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

const analysisColumns = `id, vehicle_id, audio_file_url, duration_seconds,
       anomaly_detected, anomaly_score, anomalies_json, created_at`

// Insert stores an analysis once; a second insert of the same id fails.
func (r *AnalysisRepository) Insert(ctx context.Context, a *domain.AudioAnalysis) error {
	const q = `
INSERT INTO audio_analyses
  (id, vehicle_id, audio_file_url, duration_seconds,
   anomaly_detected, anomaly_score, anomalies_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8);`

	anomalies, err := encodeAnomalies(a.Anomalies)
	if err != nil {
		return fmt.Errorf("encoding anomalies: %w", err)
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, stringOrDash(a.VehicleID), a.AudioFileURL, a.DurationSeconds,
		a.AnomalyDetected, a.AnomalyScore, anomalies, created,
	)
	if isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *AnalysisRepository) FindByID(ctx context.Context, id domain.AnalysisID) (*domain.AudioAnalysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM audio_analyses WHERE id=$1 LIMIT 1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return a, nil
}

func (r *AnalysisRepository) FindByVehicle(ctx context.Context, vehicleID string, lq domain.ListQuery) ([]*domain.AudioAnalysis, error) {
	lq = lq.Normalize()
	dir := orderSQL(lq.Order)
	q := `SELECT ` + analysisColumns + `
FROM audio_analyses
WHERE vehicle_id=$1
ORDER BY created_at ` + dir + `, seq ` + dir + `
LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, vehicleID, lq.Limit, lq.Offset)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := []*domain.AudioAnalysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.AudioAnalysis, error) {
	var a domain.AudioAnalysis
	var anomalies string
	if err := row.Scan(
		&a.ID, &a.VehicleID, &a.AudioFileURL, &a.DurationSeconds,
		&a.AnomalyDetected, &a.AnomalyScore, &anomalies, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	list, err := decodeAnomalies(anomalies)
	if err != nil {
		return nil, fmt.Errorf("decoding anomalies of %s: %w", a.ID, err)
	}
	a.Anomalies = list
	return &a, nil
}
