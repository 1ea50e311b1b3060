package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/bryanwahyu/engine-checkup/internal/application"
	domain "github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	"github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
)

// ErrNoAudioStore is returned when an audio body is supplied but no store is configured.
var ErrNoAudioStore = errors.New("audio upload is not configured")

// Service implements the recording and read-side use-cases for analyses.
// It is safe for concurrent use as long as its collaborators are.
type Service struct {
	Repo     domain.Repository
	Vehicles vehicles.Repository
	Reports  reports.Repository
	Strategy domain.Strategy
	Audio    domain.AudioStore // optional
	Clock    application.Clock
	Log      *zap.Logger
}

// RecordCommand describes one finished recording session.
type RecordCommand struct {
	VehicleID       string
	DurationSeconds int

	// Audio, when set, is uploaded to the AudioStore and its URL recorded.
	Audio       io.Reader
	AudioSize   int64
	AudioName   string
	ContentType string

	// AudioFileURL is used as-is when the recording was uploaded elsewhere.
	AudioFileURL string
}

// RecordSession analyzes a completed recording and stores the result once.
func (s *Service) RecordSession(ctx context.Context, owner string, cmd RecordCommand) (*domain.AudioAnalysis, error) {
	if cmd.DurationSeconds <= 0 {
		return nil, fmt.Errorf("%w: got %d seconds", domain.ErrInvalidDuration, cmd.DurationSeconds)
	}
	if _, err := s.Vehicles.Get(ctx, owner, vehicles.VehicleID(cmd.VehicleID)); err != nil {
		return nil, err
	}

	if cmd.Audio != nil && s.Audio == nil {
		return nil, ErrNoAudioStore
	}

	res, err := s.Strategy.Analyze(ctx, cmd.DurationSeconds)
	if err != nil {
		return nil, err
	}

	id := domain.AnalysisID(uuid.New().String())
	audioURL := cmd.AudioFileURL
	var audioKey string
	if cmd.Audio != nil {
		ext := filepath.Ext(cmd.AudioName)
		if ext == "" {
			ext = ".m4a"
		}
		audioKey = fmt.Sprintf("%s/%s/%s%s", owner, cmd.VehicleID, id, ext)
		url, err := s.Audio.Upload(ctx, audioKey, cmd.Audio, cmd.AudioSize, cmd.ContentType)
		if err != nil {
			return nil, fmt.Errorf("uploading recording: %w", err)
		}
		audioURL = url
	}

	res.ID = id
	res.VehicleID = cmd.VehicleID
	res.AudioFileURL = audioURL
	res.CreatedAt = s.Clock.Now()

	if err := s.Repo.Insert(ctx, res); err != nil {
		if audioKey != "" {
			if derr := s.Audio.Delete(ctx, audioKey); derr != nil {
				s.logger().Warn("orphaned recording left in storage",
					zap.String("key", audioKey), zap.Error(derr))
			}
		}
		return nil, fmt.Errorf("saving analysis: %w", err)
	}

	s.logger().Info("analysis recorded",
		zap.String("owner", owner),
		zap.String("vehicle_id", cmd.VehicleID),
		zap.String("analysis_id", string(id)),
		zap.Int("duration_seconds", cmd.DurationSeconds),
		zap.Int("anomalies", len(res.Anomalies)),
		zap.Int("score", res.AnomalyScore),
		zap.Bool("detected", res.AnomalyDetected),
	)
	return res, nil
}

// Get returns one analysis, provided its vehicle belongs to owner.
func (s *Service) Get(ctx context.Context, owner string, id domain.AnalysisID) (*domain.AudioAnalysis, error) {
	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Vehicles.Get(ctx, owner, vehicles.VehicleID(a.VehicleID)); err != nil {
		if errors.Is(err, vehicles.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByVehicle pages through a vehicle's analyses.
func (s *Service) ListByVehicle(ctx context.Context, owner, vehicleID string, q domain.ListQuery) ([]*domain.AudioAnalysis, error) {
	if _, err := s.Vehicles.Get(ctx, owner, vehicles.VehicleID(vehicleID)); err != nil {
		return nil, err
	}
	return s.Repo.FindByVehicle(ctx, vehicleID, q.Normalize())
}

// Dashboard aggregates a vehicle's history for the overview screen.
type Dashboard struct {
	Vehicle       *vehicles.Vehicle     `json:"vehicle"`
	TotalAnalyses int                   `json:"total_analyses"`
	Detected      int                   `json:"detected"`
	Latest        *domain.AudioAnalysis `json:"latest,omitempty"`
	LatestStatus  *domain.Label         `json:"latest_status,omitempty"`
	LatestReports int                   `json:"latest_reports"`
	StatusCounts  map[string]int        `json:"status_counts"`
	Anomalies     domain.SeverityCounts `json:"anomalies"`
	MeanScore     float64               `json:"mean_score"`
	ScoreStdDev   float64               `json:"score_std_dev"`
}

// Dashboard computes the vehicle overview from every stored analysis.
func (s *Service) Dashboard(ctx context.Context, owner, vehicleID string) (*Dashboard, error) {
	v, err := s.Vehicles.Get(ctx, owner, vehicles.VehicleID(vehicleID))
	if err != nil {
		return nil, err
	}

	all, err := s.all(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Vehicle:       v,
		TotalAnalyses: len(all),
		StatusCounts:  make(map[string]int, len(domain.Labels)),
	}
	for _, l := range domain.Labels {
		d.StatusCounts[l.String()] = 0
	}

	scores := make([]float64, 0, len(all))
	for _, a := range all {
		if a.AnomalyDetected {
			d.Detected++
		}
		d.StatusCounts[a.Status().String()]++
		for _, an := range a.Anomalies {
			d.Anomalies.Add(an.Severity)
		}
		scores = append(scores, float64(a.AnomalyScore))
	}
	switch len(scores) {
	case 0:
	case 1:
		d.MeanScore = scores[0]
	default:
		d.MeanScore, d.ScoreStdDev = stat.MeanStdDev(scores, nil)
		d.ScoreStdDev = math.Round(d.ScoreStdDev*100) / 100
	}
	d.MeanScore = math.Round(d.MeanScore*100) / 100

	if len(all) > 0 {
		d.Latest = all[0]
		l := all[0].Status()
		d.LatestStatus = &l
		if s.Reports != nil {
			rs, err := s.Reports.FindByAnalysis(ctx, all[0].ID, domain.NewestFirst)
			if err != nil {
				return nil, err
			}
			d.LatestReports = len(rs)
		}
	}
	return d, nil
}

// all reads every analysis of a vehicle, newest first.
func (s *Service) all(ctx context.Context, vehicleID string) ([]*domain.AudioAnalysis, error) {
	const page = 100
	var out []*domain.AudioAnalysis
	for offset := 0; ; offset += page {
		batch, err := s.Repo.FindByVehicle(ctx, vehicleID, domain.ListQuery{Order: domain.NewestFirst, Limit: page, Offset: offset})
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < page {
			return out, nil
		}
	}
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
