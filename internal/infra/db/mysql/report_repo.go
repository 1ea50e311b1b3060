package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	domain "github.com/bryanwahyu/engine-checkup/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

const reportColumns = `id, analysis_id, severity, estimated_cost, issue_summary, recommended_actions, created_at`

func (r *ReportRepository) Insert(ctx context.Context, m *domain.MechanicReport) error {
	const q = `
INSERT INTO mechanic_reports
  (id, analysis_id, severity, estimated_cost, issue_summary, recommended_actions, created_at)
VALUES (?,?,?,?,?,?,?);`

	actions, err := encodeActions(m.RecommendedActions)
	if err != nil {
		return err
	}
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q,
		m.ID, m.AnalysisID, m.Severity.String(), m.EstimatedCost, m.IssueSummary, actions, created,
	)
	if isDuplicate(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *ReportRepository) FindByID(ctx context.Context, id domain.ReportID) (*domain.MechanicReport, error) {
	q := `SELECT ` + reportColumns + ` FROM mechanic_reports WHERE id=? LIMIT 1;`
	m, err := scanReport(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return m, nil
}

func (r *ReportRepository) FindByAnalysis(ctx context.Context, analysisID analysis.AnalysisID, order analysis.Order) ([]*domain.MechanicReport, error) {
	dir := orderSQL(order)
	q := `SELECT ` + reportColumns + `
FROM mechanic_reports
WHERE analysis_id=?
ORDER BY created_at ` + dir + `, seq ` + dir + `;`
	rows, err := r.db.QueryContext(ctx, q, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.MechanicReport{}
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanReport(row rowScanner) (*domain.MechanicReport, error) {
	var m domain.MechanicReport
	var severity, actions string
	if err := row.Scan(&m.ID, &m.AnalysisID, &severity, &m.EstimatedCost, &m.IssueSummary, &actions, &m.CreatedAt); err != nil {
		return nil, err
	}
	l, err := analysis.ParseLabel(severity)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", m.ID, err)
	}
	m.Severity = l
	if m.RecommendedActions, err = decodeActions(actions); err != nil {
		return nil, fmt.Errorf("report %s actions: %w", m.ID, err)
	}
	return &m, nil
}
