package reports

import (
	"math"
	"strings"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

// ValidationError describes one rejected form field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Field + ": " + e.Message }

// ValidationErrors collects every failing field of a submission.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Normalized is a validated Input.
type Normalized struct {
	IssueSummary       string
	EstimatedCost      float64
	RecommendedActions []string
	// Severity is nil when the caller left it to be derived from the score.
	Severity *analysis.Label
}

// Validate trims the form, collapses the action list into a set (first-seen
// order, blanks dropped) and checks every field.
func (in Input) Validate() (Normalized, error) {
	var errs ValidationErrors
	out := Normalized{
		IssueSummary:  strings.TrimSpace(in.IssueSummary),
		EstimatedCost: in.EstimatedCost,
	}
	if out.IssueSummary == "" {
		errs = append(errs, ValidationError{Field: "issue_summary", Message: "must not be empty"})
	}
	if math.IsNaN(in.EstimatedCost) || math.IsInf(in.EstimatedCost, 0) || in.EstimatedCost <= 0 {
		errs = append(errs, ValidationError{Field: "estimated_cost", Message: "must be greater than zero"})
	}

	seen := make(map[string]struct{}, len(in.RecommendedActions))
	for _, a := range in.RecommendedActions {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out.RecommendedActions = append(out.RecommendedActions, a)
	}
	if len(out.RecommendedActions) == 0 {
		errs = append(errs, ValidationError{Field: "recommended_actions", Message: "select at least one action"})
	}

	if s := strings.TrimSpace(in.Severity); s != "" {
		l, err := analysis.ParseLabel(s)
		if err != nil {
			errs = append(errs, ValidationError{Field: "severity", Message: err.Error()})
		} else {
			out.Severity = &l
		}
	}

	if len(errs) > 0 {
		return Normalized{}, errs
	}
	return out, nil
}
