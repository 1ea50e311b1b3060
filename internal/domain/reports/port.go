package reports

import (
	"context"
	"errors"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

var (
	ErrNotFound      = errors.New("report not found")
	ErrAlreadyExists = errors.New("report already exists")
)

// Repository port for mechanic reports
type Repository interface {
	Insert(ctx context.Context, r *MechanicReport) error
	FindByID(ctx context.Context, id ReportID) (*MechanicReport, error)
	FindByAnalysis(ctx context.Context, analysisID analysis.AnalysisID, order analysis.Order) ([]*MechanicReport, error)
}
