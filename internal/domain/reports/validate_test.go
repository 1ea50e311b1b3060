package reports

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

func TestValidate_OK(t *testing.T) {
	out, err := Input{
		IssueSummary:       "  Worn serpentine belt  ",
		EstimatedCost:      120.5,
		RecommendedActions: []string{"Replace belt", " ", "Inspect tensioner", "Replace belt"},
	}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Worn serpentine belt", out.IssueSummary)
	assert.Equal(t, []string{"Replace belt", "Inspect tensioner"}, out.RecommendedActions)
	assert.Nil(t, out.Severity)
}

func TestValidate_Severity(t *testing.T) {
	out, err := Input{
		IssueSummary:       "Knock",
		EstimatedCost:      900,
		RecommendedActions: []string{"Engine teardown"},
		Severity:           "Critical",
	}.Validate()
	require.NoError(t, err)
	require.NotNil(t, out.Severity)
	assert.Equal(t, analysis.LabelCritical, *out.Severity)
}

func TestValidate_CollectsAllFields(t *testing.T) {
	_, err := Input{EstimatedCost: 0, RecommendedActions: []string{"", "  "}, Severity: "bad"}.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"issue_summary", "estimated_cost", "recommended_actions", "severity"}, fields)
}

func TestValidate_RejectsNonFiniteCost(t *testing.T) {
	for _, c := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Input{IssueSummary: "x", EstimatedCost: c, RecommendedActions: []string{"a"}}.Validate()
		assert.Error(t, err, "cost %v", c)
	}
}
