package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/engine-checkup/internal/application"
	"github.com/bryanwahyu/engine-checkup/internal/domain/ai"
	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	domain "github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/infra/db/memory"
)

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type stubAnalyses map[analysis.AnalysisID]*analysis.AudioAnalysis

func (s stubAnalyses) Get(_ context.Context, owner string, id analysis.AnalysisID) (*analysis.AudioAnalysis, error) {
	a, ok := s[id]
	if !ok || owner != "alice" {
		return nil, analysis.ErrNotFound
	}
	return a, nil
}

type stubAI struct {
	reply string
	err   error
	user  string
}

func (c *stubAI) Complete(_ context.Context, _, user string) (string, error) {
	c.user = user
	return c.reply, c.err
}

type stubPrompts struct{}

func (stubPrompts) System() string                        { return "system" }
func (stubPrompts) User(a *analysis.AudioAnalysis) string { return "analysis " + string(a.ID) }

func newService() *Service {
	return &Service{
		Repo: memory.NewReportRepository(),
		Analyses: stubAnalyses{
			"a1": {ID: "a1", VehicleID: "v1", AnomalyScore: 72, AnomalyDetected: true},
		},
		Clock: application.FixedClock{T: now},
	}
}

func TestCreate_DerivesSeverityFromScore(t *testing.T) {
	s := newService()
	r, err := s.Create(context.Background(), "alice", "a1", domain.Input{
		IssueSummary:       "Belt squeal at idle",
		EstimatedCost:      85,
		RecommendedActions: []string{"Replace belt", "Replace belt"},
	})
	require.NoError(t, err)
	assert.Equal(t, analysis.LabelHigh, r.Severity)
	assert.Equal(t, analysis.AnalysisID("a1"), r.AnalysisID)
	assert.Equal(t, []string{"Replace belt"}, r.RecommendedActions)
	assert.Equal(t, now, r.CreatedAt)

	list, err := s.ListByAnalysis(context.Background(), "alice", "a1", analysis.NewestFirst)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)

	got, err := s.Get(context.Background(), "alice", r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, err = s.Get(context.Background(), "bob", r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ExplicitSeverity(t *testing.T) {
	s := newService()
	r, err := s.Create(context.Background(), "alice", "a1", domain.Input{
		IssueSummary: "Rod knock", EstimatedCost: 2400, RecommendedActions: []string{"Stop driving"}, Severity: "critical",
	})
	require.NoError(t, err)
	assert.Equal(t, analysis.LabelCritical, r.Severity)
}

func TestCreate_ValidationBeforeLookup(t *testing.T) {
	s := newService()
	_, err := s.Create(context.Background(), "alice", "missing", domain.Input{})
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
}

func TestCreate_UnknownAnalysis(t *testing.T) {
	s := newService()
	_, err := s.Create(context.Background(), "alice", "missing", domain.Input{
		IssueSummary: "x", EstimatedCost: 1, RecommendedActions: []string{"y"},
	})
	assert.ErrorIs(t, err, analysis.ErrNotFound)
}

type failingAnalyses struct{ err error }

func (f failingAnalyses) Get(context.Context, string, analysis.AnalysisID) (*analysis.AudioAnalysis, error) {
	return nil, f.err
}

func TestGet_ForeignAnalysisIsNotFound(t *testing.T) {
	s := newService()
	ctx := context.Background()
	require.NoError(t, s.Repo.Insert(ctx, &domain.MechanicReport{ID: "r1", AnalysisID: "a1", CreatedAt: now}))

	_, err := s.Get(ctx, "bob", "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := s.Get(ctx, "alice", "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportID("r1"), got.ID)
}

func TestGet_StorageFailureIsNotMaskedAsNotFound(t *testing.T) {
	s := newService()
	ctx := context.Background()
	require.NoError(t, s.Repo.Insert(ctx, &domain.MechanicReport{ID: "r1", AnalysisID: "a1", CreatedAt: now}))

	down := errors.New("db: connection refused")
	s.Analyses = failingAnalyses{err: down}
	_, err := s.Get(ctx, "alice", "r1")
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestDraft(t *testing.T) {
	s := newService()
	_, err := s.Draft(context.Background(), "alice", "a1")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)

	client := &stubAI{reply: `{"issue_summary":"Possible bearing wear","estimated_cost":320,"recommended_actions":["Inspect alternator bearing"]}`}
	s.AI = client
	s.Prompts = stubPrompts{}
	d, err := s.Draft(context.Background(), "alice", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Possible bearing wear", d.IssueSummary)
	assert.Equal(t, 320.0, d.EstimatedCost)
	assert.Equal(t, []string{"Inspect alternator bearing"}, d.RecommendedActions)
	assert.Equal(t, "analysis a1", client.user)

	client.reply = "not json"
	_, err = s.Draft(context.Background(), "alice", "a1")
	assert.Error(t, err)

	client.err = ai.ErrQuotaExceeded
	_, err = s.Draft(context.Background(), "alice", "a1")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestDraft_Fallback(t *testing.T) {
	s := newService()
	s.Fallback = func(a *analysis.AudioAnalysis) domain.Draft {
		return domain.Draft{IssueSummary: "local " + string(a.ID), RecommendedActions: []string{"look"}}
	}
	d, err := s.Draft(context.Background(), "alice", "a1")
	require.NoError(t, err)
	assert.Equal(t, "local a1", d.IssueSummary)

	_, err = s.Draft(context.Background(), "bob", "a1")
	assert.ErrorIs(t, err, analysis.ErrNotFound)
}
