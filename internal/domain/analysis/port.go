package analysis

import (
	"context"
	"io"
)

// Strategy turns a finished recording into an anomaly profile. Implementations
// fill Anomalies, AnomalyDetected, AnomalyScore and DurationSeconds only.
type Strategy interface {
	Analyze(ctx context.Context, durationSeconds int) (*AudioAnalysis, error)
}

// Repository port (insert-only persistence)
type Repository interface {
	Insert(ctx context.Context, a *AudioAnalysis) error
	FindByID(ctx context.Context, id AnalysisID) (*AudioAnalysis, error)
	FindByVehicle(ctx context.Context, vehicleID string, q ListQuery) ([]*AudioAnalysis, error)
}

// AudioStore port (object storage for recordings)
type AudioStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
