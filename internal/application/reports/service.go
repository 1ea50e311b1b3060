package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/engine-checkup/internal/application"
	"github.com/bryanwahyu/engine-checkup/internal/domain/ai"
	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	domain "github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
)

// AnalysisReader is the slice of the analyses service the builder needs.
type AnalysisReader interface {
	Get(ctx context.Context, owner string, id analysis.AnalysisID) (*analysis.AudioAnalysis, error)
}

// PromptBuilder renders the prompts used to draft a report.
type PromptBuilder interface {
	System() string
	User(a *analysis.AudioAnalysis) string
}

// Drafter suggests a report body without calling out to an AI provider.
type Drafter func(a *analysis.AudioAnalysis) domain.Draft

// Service is the report builder: it turns a submitted form into a MechanicReport.
type Service struct {
	Repo     domain.Repository
	Analyses AnalysisReader
	Clock    application.Clock
	AI       ai.Client // optional
	Prompts  PromptBuilder
	Fallback Drafter // used when AI is nil
	Log      *zap.Logger
}

// Create validates the form and stores exactly one report for the analysis.
// Severity defaults to the analysis' score label.
func (s *Service) Create(ctx context.Context, owner string, analysisID analysis.AnalysisID, in domain.Input) (*domain.MechanicReport, error) {
	norm, err := in.Validate()
	if err != nil {
		return nil, err
	}
	a, err := s.Analyses.Get(ctx, owner, analysisID)
	if err != nil {
		return nil, err
	}

	sev := a.Status()
	if norm.Severity != nil {
		sev = *norm.Severity
	}
	r := &domain.MechanicReport{
		ID:                 domain.ReportID(uuid.New().String()),
		AnalysisID:         a.ID,
		Severity:           sev,
		EstimatedCost:      norm.EstimatedCost,
		IssueSummary:       norm.IssueSummary,
		RecommendedActions: norm.RecommendedActions,
		CreatedAt:          s.Clock.Now(),
	}
	if err := s.Repo.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}
	s.logger().Info("mechanic report created",
		zap.String("owner", owner),
		zap.String("analysis_id", string(a.ID)),
		zap.String("report_id", string(r.ID)),
		zap.Stringer("severity", r.Severity),
	)
	return r, nil
}

// Get returns a report if the caller owns the analysis it references.
func (s *Service) Get(ctx context.Context, owner string, id domain.ReportID) (*domain.MechanicReport, error) {
	r, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Analyses.Get(ctx, owner, r.AnalysisID); err != nil {
		if errors.Is(err, analysis.ErrNotFound) || errors.Is(err, vehicles.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListByAnalysis returns all reports written against one analysis.
func (s *Service) ListByAnalysis(ctx context.Context, owner string, analysisID analysis.AnalysisID, order analysis.Order) ([]*domain.MechanicReport, error) {
	if _, err := s.Analyses.Get(ctx, owner, analysisID); err != nil {
		return nil, err
	}
	return s.Repo.FindByAnalysis(ctx, analysisID, order)
}

// Draft suggests a report body from the AI client, or the local fallback
// when none is configured. Nothing is stored; the user edits the draft and
// submits it through Create.
func (s *Service) Draft(ctx context.Context, owner string, analysisID analysis.AnalysisID) (*domain.Draft, error) {
	useAI := s.AI != nil && s.Prompts != nil
	if !useAI && s.Fallback == nil {
		return nil, ai.ErrNotConfigured
	}
	a, err := s.Analyses.Get(ctx, owner, analysisID)
	if err != nil {
		return nil, err
	}
	if !useAI {
		d := s.Fallback(a)
		return &d, nil
	}
	raw, err := s.AI.Complete(ctx, s.Prompts.System(), s.Prompts.User(a))
	if err != nil {
		return nil, err
	}
	var d domain.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	if d.EstimatedCost < 0 {
		d.EstimatedCost = 0
	}
	return &d, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
