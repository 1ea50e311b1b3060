package reports

import (
	"time"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

// ReportID identifier type
type ReportID string

// MechanicReport is a user-authored diagnosis linked to one analysis.
// AnalysisID is a back-reference; the analysis is not owned by the report.
type MechanicReport struct {
	ID                 ReportID            `json:"id"`
	AnalysisID         analysis.AnalysisID `json:"analysis_id"`
	Severity           analysis.Label      `json:"severity"`
	EstimatedCost      float64             `json:"estimated_cost"`
	IssueSummary       string              `json:"issue_summary"`
	RecommendedActions []string            `json:"recommended_actions"`
	CreatedAt          time.Time           `json:"created_at"`
}

// Input is the form a user submits to create a report.
type Input struct {
	IssueSummary       string   `json:"issue_summary"`
	EstimatedCost      float64  `json:"estimated_cost"`
	RecommendedActions []string `json:"recommended_actions"`
	Severity           string   `json:"severity,omitempty"`
}

// Draft is a machine suggested report body. It is never persisted.
type Draft struct {
	IssueSummary       string   `json:"issue_summary"`
	EstimatedCost      float64  `json:"estimated_cost"`
	RecommendedActions []string `json:"recommended_actions"`
}
