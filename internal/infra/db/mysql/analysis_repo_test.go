package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	"github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
)

var created = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func TestAnalysisRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := &analysis.AudioAnalysis{
		ID: "a1", VehicleID: "v1", DurationSeconds: 60, AnomalyDetected: true, AnomalyScore: 77,
		Anomalies: []analysis.Anomaly{{TimestampMS: 1200, Severity: analysis.SeverityHigh, FrequencyRange: "2000-2600 Hz"}},
		CreatedAt: created,
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audio_analyses")).
		WithArgs("a1", "v1", "", 60, true, 77,
			`[{"timestamp_ms":1200,"severity":"high","frequency_range":"2000-2600 Hz"}]`, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewAnalysisRepository(db).Insert(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_InsertDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audio_analyses")).
		WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err = NewAnalysisRepository(db).Insert(context.Background(), &analysis.AudioAnalysis{ID: "a1", CreatedAt: created})
	assert.ErrorIs(t, err, analysis.ErrAlreadyExists)
}

func analysisRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "vehicle_id", "audio_file_url", "duration_seconds",
		"anomaly_detected", "anomaly_score", "anomalies_json", "created_at"})
}

func TestAnalysisRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM audio_analyses WHERE id=?")).
		WithArgs("a1").
		WillReturnRows(analysisRows().AddRow("a1", "v1", "http://x/a.m4a", 30, false, 12,
			`[{"timestamp_ms":5,"severity":"low","frequency_range":"1000-1500 Hz"}]`, created))

	a, err := NewAnalysisRepository(db).FindByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, analysis.AnalysisID("a1"), a.ID)
	assert.Equal(t, 12, a.AnomalyScore)
	require.Len(t, a.Anomalies, 1)
	assert.Equal(t, analysis.SeverityLow, a.Anomalies[0].Severity)
	assert.Equal(t, created, a.CreatedAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM audio_analyses WHERE id=?")).
		WithArgs("nope").
		WillReturnRows(analysisRows())
	_, err = NewAnalysisRepository(db).FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, analysis.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_FindByVehicleOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC, seq ASC")).
		WithArgs("v1", 5, 10).
		WillReturnRows(analysisRows().
			AddRow("a1", "v1", "", 30, false, 1, `[]`, created).
			AddRow("a2", "v1", "", 30, true, 66, `[]`, created.Add(time.Minute)))

	list, err := NewAnalysisRepository(db).FindByVehicle(context.Background(), "v1",
		analysis.ListQuery{Order: analysis.OldestFirst, Limit: 5, Offset: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, analysis.AnalysisID("a2"), list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_RoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mechanic_reports")).
		WithArgs("r1", "a1", "high", 150.0, "Belt", `["Replace belt","Check pulley"]`, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Insert(context.Background(), &reports.MechanicReport{
		ID: "r1", AnalysisID: "a1", Severity: analysis.LabelHigh, EstimatedCost: 150,
		IssueSummary: "Belt", RecommendedActions: []string{"Replace belt", "Check pulley"}, CreatedAt: created,
	}))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, seq DESC")).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "analysis_id", "severity", "estimated_cost", "issue_summary", "recommended_actions", "created_at"}).
			AddRow("r1", "a1", "high", 150.0, "Belt", `["Replace belt","Check pulley"]`, created))
	list, err := repo.FindByAnalysis(context.Background(), "a1", analysis.NewestFirst)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, analysis.LabelHigh, list[0].Severity)
	assert.Equal(t, []string{"Replace belt", "Check pulley"}, list[0].RecommendedActions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM vehicles")).
		WithArgs("alice", "v9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "make", "model", "year", "nickname", "created_at"}))
	_, err = NewVehicleRepository(db).Get(context.Background(), "alice", "v9")
	assert.ErrorIs(t, err, vehicles.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
